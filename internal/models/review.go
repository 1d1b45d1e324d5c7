package models

import "time"

// ReviewResult is the persisted output of one completed analysis run.
// Immutable once written; sessions reference it by ID, never embed it.
type ReviewResult struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index"`
	ReviewType  string    `json:"review_type"`
	Insights    []string  `json:"insights" gorm:"serializer:json"`
	Score       int       `json:"score"`
	ReportRef   string    `json:"report_ref"`
	DownloadURL string    `json:"download_url"`
	Email       string    `json:"email"`
	EmailSent   bool      `json:"email_sent"`
	Provider    string    `json:"provider"`
	Success     bool      `json:"success"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
}
