package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// DatabaseStore persists everything in PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) GetSession(userID string) (*models.Session, error) {
	var session models.Session
	err := d.db.First(&session, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %v", err)
	}
	return &session, nil
}

// SaveSession upserts the full session row keyed by user_id.
func (d *DatabaseStore) SaveSession(session *models.Session) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("save session: %v", err)
	}
	return nil
}

func (d *DatabaseStore) CreateReview(review *models.ReviewResult) error {
	if err := d.db.Create(review).Error; err != nil {
		return fmt.Errorf("create review: %v", err)
	}
	return nil
}

func (d *DatabaseStore) GetReview(id string) (*models.ReviewResult, error) {
	var review models.ReviewResult
	err := d.db.First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %v", err)
	}
	return &review, nil
}

func (d *DatabaseStore) GetReviewsByUser(userID string) ([]*models.ReviewResult, error) {
	var reviews []*models.ReviewResult
	err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("get reviews for %s: %v", userID, err)
	}
	return reviews, nil
}

func (d *DatabaseStore) CreatePayment(payment *models.PaymentRecord) error {
	if err := d.db.Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %v", err)
	}
	return nil
}

func (d *DatabaseStore) GetPayment(reference string) (*models.PaymentRecord, error) {
	var payment models.PaymentRecord
	err := d.db.First(&payment, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %v", err)
	}
	return &payment, nil
}

func (d *DatabaseStore) UpdatePayment(payment *models.PaymentRecord) error {
	if err := d.db.Save(payment).Error; err != nil {
		return fmt.Errorf("update payment: %v", err)
	}
	return nil
}
