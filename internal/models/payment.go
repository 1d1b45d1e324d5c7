package models

import "time"

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// PaymentRecord is the audit trail for one initiated payment. It is
// written when a payment session is created and updated when the gateway
// confirms the charge.
type PaymentRecord struct {
	Reference  string     `json:"reference" gorm:"primaryKey"`
	UserID     string     `json:"user_id" gorm:"index"`
	Amount     int        `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	PaymentURL string     `json:"payment_url"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
