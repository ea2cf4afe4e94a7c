// main.go
package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"bakeshop-api/controllers"
	"bakeshop-api/gateway"
	"bakeshop-api/jobs"
	"bakeshop-api/routes"
	"bakeshop-api/utils"
)

func main() {
	// Load environment variables from .env file; absence is fine when the
	// environment is already populated.
	_ = godotenv.Load()

	logger, err := utils.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := utils.LoadConfig()
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client, err := utils.ConnectDB(cfg.MongoURI)
	if err != nil {
		logger.Fatalw("failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			logger.Errorw("failed to disconnect from MongoDB", "error", err)
		}
	}()

	if err := utils.EnsureIndexes(client, cfg.DatabaseName); err != nil {
		logger.Fatalw("failed to ensure indexes", "error", err)
	}

	// Shared services
	emailService := utils.NewEmailService(cfg)
	gatewayClient := gateway.NewClient(cfg.GatewaySecretKey, cfg.GatewayBaseURL)

	// Initialize controllers
	userController := controllers.NewUserController(client, cfg.DatabaseName)
	productController := controllers.NewProductController(client, cfg.DatabaseName)
	cartController := controllers.NewCartController(client, cfg.DatabaseName, logger)
	checkoutController := controllers.NewCheckoutController(client, cfg.DatabaseName, gatewayClient, cfg.FrontendBaseURL, logger)
	webhookController := controllers.NewWebhookController(client, cfg.DatabaseName, emailService, logger)
	orderController := controllers.NewOrderController(client, cfg.DatabaseName, gatewayClient, emailService, logger)

	// Recurring jobs
	abandonedJob := jobs.NewAbandonedCartJob(client, cfg.DatabaseName, emailService, cfg.FrontendBaseURL, logger)
	bestSellerJob := jobs.NewBestSellerJob(client, cfg.DatabaseName, logger)
	scheduler, err := jobs.StartScheduler(abandonedJob, bestSellerJob)
	if err != nil {
		logger.Fatalw("failed to start scheduler", "error", err)
	}
	defer scheduler.Stop()

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, checkoutController, webhookController, orderController)

	logger.Infow("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
