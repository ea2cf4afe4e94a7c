// utils/email.go
package utils

import (
	"fmt"

	"github.com/keighl/postmark"

	"bakeshop-api/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(cfg *Config) *EmailService {
	client := postmark.NewClient(cfg.PostmarkToken, "")
	return &EmailService{
		client: client,
		sender: cfg.EmailSender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - Bakeshop"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>₱%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.OrderID,
		order.TotalAmount,
		order.Payment.PaymentMethod,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendCartRecoveryEmail sends a re-engagement email to a user whose checkout
// went stale, with a link back to their cart.
func (es *EmailService) SendCartRecoveryEmail(toEmail, name, cartLink string) error {
	subject := "You left something in your cart - Bakeshop"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Looks like you didn't finish checking out. Your cart is saved and waiting for you.<br><br><a href=\"%s\">Return to your cart</a><br><br>Thank you for shopping with us!",
		name,
		cartLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
