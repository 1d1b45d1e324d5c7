package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// SessionService is the keyed persistence layer for conversation state.
// Expiry is evaluated when a session is loaded; there is no background
// sweeper.
type SessionService struct {
	store storage.Store
	ttl   time.Duration
}

// NewSessionService creates a session service with the given TTL.
func NewSessionService(store storage.Store, ttl time.Duration) *SessionService {
	return &SessionService{store: store, ttl: ttl}
}

// GetOrCreate loads the session for a user, creating a welcome-state one
// for unseen users. A session whose last activity is older than the TTL
// comes back as a fresh welcome record; the last review reference is kept
// until overwritten so a returning user can still view old results.
func (s *SessionService) GetOrCreate(userID string) (*models.Session, error) {
	session, err := s.store.GetSession(userID)
	if errors.Is(err, storage.ErrNotFound) {
		session = models.NewSession(userID)
		if err := s.store.SaveSession(session); err != nil {
			return nil, fmt.Errorf("create session: %v", err)
		}
		return session, nil
	}
	if err != nil {
		return nil, err
	}

	if session.ExpiredAt(time.Now(), s.ttl) {
		log.Printf("Session for %s expired, resetting to welcome", userID)
		fresh := models.NewSession(userID)
		fresh.LastReviewID = session.LastReviewID
		if err := s.store.SaveSession(fresh); err != nil {
			return nil, fmt.Errorf("reset expired session: %v", err)
		}
		return fresh, nil
	}

	return session, nil
}

// Save merge-writes the session and refreshes its activity timestamp.
// Safe to call repeatedly with the same data.
func (s *SessionService) Save(session *models.Session) error {
	session.LastActivityAt = time.Now()
	return s.store.SaveSession(session)
}

// Reset replaces the stored session with a brand-new record (new
// CreatedAt, everything cleared) and returns it.
func (s *SessionService) Reset(userID string) (*models.Session, error) {
	fresh := models.NewSession(userID)
	if err := s.store.SaveSession(fresh); err != nil {
		return nil, fmt.Errorf("reset session: %v", err)
	}
	return fresh, nil
}
