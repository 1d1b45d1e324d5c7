package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/services"
)

// WhatsAppHandler handles the Twilio WhatsApp webhook.
type WhatsAppHandler struct {
	conversation *services.ConversationService
	messenger    services.Messenger
}

// NewWhatsAppHandler creates a new WhatsApp handler.
func NewWhatsAppHandler(conversation *services.ConversationService, messenger services.Messenger) *WhatsAppHandler {
	return &WhatsAppHandler{
		conversation: conversation,
		messenger:    messenger,
	}
}

// TwilioWebhookPayload is the inbound message form Twilio posts.
type TwilioWebhookPayload struct {
	MessageSid        string `form:"MessageSid"`
	AccountSid        string `form:"AccountSid"`
	From              string `form:"From"`
	To                string `form:"To"`
	Body              string `form:"Body"`
	NumMedia          string `form:"NumMedia"`
	MediaUrl0         string `form:"MediaUrl0"`
	MediaContentType0 string `form:"MediaContentType0"`
}

// HandleWebhook processes one incoming WhatsApp message. Twilio retries
// on non-2xx, so the webhook is always acknowledged; processing errors
// are reported to the user directly instead.
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.From == "" {
		// Status callback or other non-message event
		return c.SendStatus(fiber.StatusOK)
	}

	mediaCount, _ := strconv.Atoi(payload.NumMedia)
	msg := &models.InboundMessage{
		From:        payload.From,
		Body:        payload.Body,
		MediaCount:  mediaCount,
		MediaURL:    payload.MediaUrl0,
		ContentType: payload.MediaContentType0,
	}

	log.Printf("WhatsApp message from %s (media=%d)", payload.From, mediaCount)

	if err := h.conversation.HandleMessage(c.Context(), msg); err != nil {
		log.Printf("Error processing message from %s: %v", payload.From, err)
		if sendErr := h.messenger.SendMessage(models.NormalizePhone(payload.From), services.ApologyMessage()); sendErr != nil {
			log.Printf("Failed to send apology to %s: %v", payload.From, sendErr)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload simulates an inbound message without Twilio.
type TestWebhookPayload struct {
	From        string `json:"from"`
	Message     string `json:"message"`
	MediaURL    string `json:"media_url"`
	ContentType string `json:"content_type"`
}

// HandleTestWebhook processes simulated WhatsApp messages (development).
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("Test webhook from %s: %s", payload.From, payload.Message)

	msg := &models.InboundMessage{
		From:        payload.From,
		Body:        payload.Message,
		MediaURL:    payload.MediaURL,
		ContentType: payload.ContentType,
	}
	if payload.MediaURL != "" {
		msg.MediaCount = 1
	}

	if err := h.conversation.HandleMessage(c.Context(), msg); err != nil {
		log.Printf("Error processing test message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
