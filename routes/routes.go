// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"bakeshop-api/controllers"
	"bakeshop-api/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	checkoutController *controllers.CheckoutController,
	webhookController *controllers.WebhookController,
	orderController *controllers.OrderController,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")

	// Gateway callback; must stay open and must always answer 200
	router.HandleFunc("/webhooks/payment", webhookController.HandlePaymentWebhook).Methods("POST")

	// Abandonment beacons fire during page teardown, when no auth header
	// can be attached reliably
	router.HandleFunc("/checkout/abandon", checkoutController.AbandonSignal).Methods("POST")

	// Product routes
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart/add", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/{userId}", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart/{userId}/status", cartController.SetStatus).Methods("PUT")
	protected.HandleFunc("/cart/{userId}/{itemId}", cartController.RemoveItem).Methods("DELETE")
	protected.HandleFunc("/cart/{userId}/{itemId}", cartController.UpdateQuantity).Methods("PUT")
	protected.HandleFunc("/cart/{userId}", cartController.ClearCart).Methods("DELETE")

	// Checkout routes
	protected.HandleFunc("/checkout", checkoutController.CreateCheckout).Methods("POST")
	protected.HandleFunc("/checkout/cancel", checkoutController.CancelCheckout).Methods("POST")
	protected.HandleFunc("/checkout/recover", checkoutController.RecoverCheckout).Methods("POST")

	// Order routes
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/create", orderController.CreateCODOrder).Methods("POST")
	protected.HandleFunc("/orders/refund", orderController.RefundOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}/status", orderController.UpdateOrderStatus).Methods("PUT")

	// Admin product routes
	admin := router.PathPrefix("/products").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")
}
