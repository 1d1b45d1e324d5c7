package services

import (
	"context"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/cv"
	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// The conversation and review services depend on these narrow gateway
// interfaces so every external system can be replaced by a test double.

// Messenger sends outbound chat messages.
type Messenger interface {
	SendMessage(to, body string) error
}

// MediaFetcher downloads inbound attachment bytes from the channel.
type MediaFetcher interface {
	FetchMedia(url string) ([]byte, error)
}

// FileStore persists uploaded documents and rendered reports.
type FileStore interface {
	Store(ctx context.Context, userID string, data []byte, contentType string) (string, error)
	Retrieve(ctx context.Context, ref string) ([]byte, error)
	DownloadURL(ctx context.Context, ref string, ttl time.Duration) (string, error)
}

// PaymentGateway creates and verifies payment transactions.
type PaymentGateway interface {
	CreateSession(userID string, amount int, currency string) (*PaymentSession, error)
	Verify(reference string) (*PaymentVerification, error)
}

// Analysis is one analyzer verdict on a document.
type Analysis struct {
	Insights []string
	Score    int
	Provider string
}

// Analyzer scores a document. Implementations are fallible; callers fall
// back to the local heuristic on error.
type Analyzer interface {
	Analyze(ctx context.Context, doc *cv.Document, reviewType string) (*Analysis, error)
}

// Emailer delivers the review by email.
type Emailer interface {
	SendReviewEmail(to string, review *models.ReviewResult) error
}

// ReportRenderer produces a downloadable report for an advanced review
// and returns its storage ref and download URL.
type ReportRenderer interface {
	Render(ctx context.Context, userID string, review *models.ReviewResult) (ref, url string, err error)
}
