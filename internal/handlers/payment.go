package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sherlockbot/cv-review-backend/internal/services"
)

// PaymentHandler handles Paystack webhooks and the browser landing pages
// users hit after the hosted checkout.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// PaystackWebhookPayload is the event envelope Paystack posts.
type PaystackWebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Metadata  struct {
			PhoneNumber string `json:"phone_number"`
		} `json:"metadata"`
	} `json:"data"`
}

// HandleWebhook processes a Paystack event. Signature validation happens
// in middleware before this runs. Paystack retries on non-2xx, so every
// recognized event is acknowledged even when applying it fails; the
// charge will be re-verified on redelivery.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload PaystackWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing payment webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.Event != "charge.success" {
		log.Printf("Ignoring payment event %q", payload.Event)
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("Payment webhook: charge.success for %s", payload.Data.Reference)

	if err := h.payments.ConfirmPayment(payload.Data.Reference, payload.Data.Metadata.PhoneNumber); err != nil {
		log.Printf("Error confirming payment %s: %v", payload.Data.Reference, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// HandleSuccess is the browser landing page after a completed checkout.
// The real state change comes from the webhook, so this only tells the
// user to go back to WhatsApp.
func (h *PaymentHandler) HandleSuccess(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString("<html><body><h1>Payment received!</h1>" +
		"<p>Thank you. Return to WhatsApp to continue your CV review.</p></body></html>")
}

// HandleCancel is the browser landing page for an abandoned checkout.
func (h *PaymentHandler) HandleCancel(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString("<html><body><h1>Payment cancelled</h1>" +
		"<p>No charge was made. Return to WhatsApp to choose a review option.</p></body></html>")
}
