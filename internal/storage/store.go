package storage

import (
	"errors"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the bot needs. A single write
// is assumed atomic at the storage layer; there are no cross-user
// transactions.
type Store interface {
	// Session operations
	GetSession(userID string) (*models.Session, error)
	SaveSession(session *models.Session) error

	// Review operations
	CreateReview(review *models.ReviewResult) error
	GetReview(id string) (*models.ReviewResult, error)
	GetReviewsByUser(userID string) ([]*models.ReviewResult, error)

	// Payment operations
	CreatePayment(payment *models.PaymentRecord) error
	GetPayment(reference string) (*models.PaymentRecord, error)
	UpdatePayment(payment *models.PaymentRecord) error
}
