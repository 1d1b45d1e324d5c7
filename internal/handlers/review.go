package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// ReviewHandler exposes stored review results over the REST API.
type ReviewHandler struct {
	store storage.Store
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(store storage.Store) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// GetReview returns one review by ID.
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	review, err := h.store.GetReview(c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Review not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load review",
		})
	}

	return c.JSON(review)
}

// GetUserReviews returns all reviews for a phone number, newest first.
func (h *ReviewHandler) GetUserReviews(c *fiber.Ctx) error {
	userID := models.NormalizePhone(c.Params("phone"))

	reviews, err := h.store.GetReviewsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load reviews",
		})
	}

	return c.JSON(fiber.Map{
		"user_id": userID,
		"count":   len(reviews),
		"reviews": reviews,
	})
}
