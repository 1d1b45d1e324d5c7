package models

import (
	"strings"
	"time"
)

// Conversation states. The state machine only ever moves along the graph
// welcome -> awaiting_cv -> awaiting_review_type -> awaiting_payment ->
// awaiting_email -> processing -> completed; anything else resets to welcome.
const (
	StateWelcome            = "welcome"
	StateAwaitingCV         = "awaiting_cv"
	StateAwaitingReviewType = "awaiting_review_type"
	StateAwaitingPayment    = "awaiting_payment"
	StateAwaitingEmail      = "awaiting_email"
	StateProcessing         = "processing"
	StateCompleted          = "completed"
)

// Review types
const (
	ReviewTypeBasic    = "basic"
	ReviewTypeAdvanced = "advanced"
)

// Session stores the conversational cursor for one WhatsApp user.
// State is stored, never inferred from history, so the machine survives
// process restarts.
type Session struct {
	UserID         string    `json:"user_id" gorm:"primaryKey"`
	State          string    `json:"state"`
	ReviewType     string    `json:"review_type"`
	DocumentRef    string    `json:"document_ref"`
	PaymentRef     string    `json:"payment_ref"`
	PaymentURL     string    `json:"payment_url"`
	Email          string    `json:"email"`
	LastReviewID   string    `json:"last_review_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// NewSession returns a fresh welcome-state session for a phone number.
func NewSession(userID string) *Session {
	now := time.Now()
	return &Session{
		UserID:         userID,
		State:          StateWelcome,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// ExpiredAt reports whether the session is stale relative to the TTL at
// the given instant. Expiry is checked at load time, not by a sweeper.
func (s *Session) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivityAt) > ttl
}

// NormalizePhone strips the WhatsApp channel prefix Twilio puts on sender
// addresses so sessions are keyed by the bare number.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:")
}
