package storage

import (
	"sort"
	"sync"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
type MemoryStore struct {
	sessions map[string]*models.Session
	reviews  map[string]*models.ReviewResult
	payments map[string]*models.PaymentRecord

	sessionMu sync.RWMutex
	reviewMu  sync.RWMutex
	paymentMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		reviews:  make(map[string]*models.ReviewResult),
		payments: make(map[string]*models.PaymentRecord),
	}
}

func (m *MemoryStore) GetSession(userID string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *session
	return &copied, nil
}

// SaveSession upserts the full session record. Writing the same session
// twice is a no-op, which keeps webhook redelivery safe.
func (m *MemoryStore) SaveSession(session *models.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	copied := *session
	m.sessions[session.UserID] = &copied
	return nil
}

func (m *MemoryStore) CreateReview(review *models.ReviewResult) error {
	m.reviewMu.Lock()
	defer m.reviewMu.Unlock()

	copied := *review
	m.reviews[review.ID] = &copied
	return nil
}

func (m *MemoryStore) GetReview(id string) (*models.ReviewResult, error) {
	m.reviewMu.RLock()
	defer m.reviewMu.RUnlock()

	review, exists := m.reviews[id]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *review
	return &copied, nil
}

func (m *MemoryStore) GetReviewsByUser(userID string) ([]*models.ReviewResult, error) {
	m.reviewMu.RLock()
	defer m.reviewMu.RUnlock()

	var reviews []*models.ReviewResult
	for _, review := range m.reviews {
		if review.UserID == userID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}

	// Newest first, matching the database store ordering
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}

func (m *MemoryStore) CreatePayment(payment *models.PaymentRecord) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	copied := *payment
	m.payments[payment.Reference] = &copied
	return nil
}

func (m *MemoryStore) GetPayment(reference string) (*models.PaymentRecord, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	payment, exists := m.payments[reference]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *payment
	return &copied, nil
}

func (m *MemoryStore) UpdatePayment(payment *models.PaymentRecord) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	if _, exists := m.payments[payment.Reference]; !exists {
		return ErrNotFound
	}

	copied := *payment
	m.payments[payment.Reference] = &copied
	return nil
}
