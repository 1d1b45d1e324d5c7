package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sherlockbot/cv-review-backend/internal/config"
	"github.com/sherlockbot/cv-review-backend/internal/handlers"
	"github.com/sherlockbot/cv-review-backend/internal/middleware"
)

// Handlers bundles the constructed handlers for route registration.
type Handlers struct {
	Health   *handlers.HealthHandler
	WhatsApp *handlers.WhatsAppHandler
	Payment  *handlers.PaymentHandler
	Review   *handlers.ReviewHandler
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, h *Handlers) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Sherlock Bot CV Review!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":          "/health",
				"api":             "/api",
				"whatsapp":        "/webhook/whatsapp",
				"payment":         "/webhook/paystack",
				"test_whatsapp":   "/test/whatsapp",
				"payment_success": "/payment/success",
			},
		})
	})

	app.Get("/health", h.Health.Check)

	// API routes
	api := app.Group("/api")
	api.Get("/reviews/:id", h.Review.GetReview)
	api.Get("/users/:phone/reviews", h.Review.GetUserReviews)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	if cfg.DisableWebhookValidation {
		log.Println("Webhook signature validation DISABLED - development only")
		webhooks.Post("/whatsapp", h.WhatsApp.HandleWebhook)
		webhooks.Post("/paystack", h.Payment.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp",
			middleware.ValidateTwilioSignature(cfg.TwilioAuthToken, cfg.BaseURL),
			h.WhatsApp.HandleWebhook)
		webhooks.Post("/paystack",
			middleware.ValidatePaystackSignature(cfg.PaystackSecretKey),
			h.Payment.HandleWebhook)
	}

	// ========== PAYMENT LANDING PAGES ==========
	app.Get("/payment/success", h.Payment.HandleSuccess)
	app.Get("/payment/cancel", h.Payment.HandleCancel)

	// ========== TEST ROUTES (Development Only) ==========
	if cfg.DisableWebhookValidation {
		app.Post("/test/whatsapp", h.WhatsApp.HandleTestWebhook)
	}
}
