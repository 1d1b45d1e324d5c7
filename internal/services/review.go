package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sherlockbot/cv-review-backend/internal/cv"
	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// ReviewService runs one review end to end: resolve the stored document,
// analyze it, render and mail the report for advanced reviews, persist
// the result. Only document retrieval is fatal; every later step is
// best-effort so finished analysis work is never thrown away.
type ReviewService struct {
	store    storage.Store
	files    FileStore
	analyzer Analyzer // nil when no external analysis API is configured
	reports  ReportRenderer
	emails   Emailer
}

// NewReviewService creates a review orchestrator.
func NewReviewService(store storage.Store, files FileStore, analyzer Analyzer, reports ReportRenderer, emails Emailer) *ReviewService {
	return &ReviewService{
		store:    store,
		files:    files,
		analyzer: analyzer,
		reports:  reports,
		emails:   emails,
	}
}

// Run executes a review for the stored document. The returned result has
// Success=false only when the document itself could not be resolved;
// failed results are never persisted.
func (r *ReviewService) Run(ctx context.Context, userID, documentRef, reviewType, email string) *models.ReviewResult {
	result := &models.ReviewResult{
		ID:         uuid.NewString(),
		UserID:     userID,
		ReviewType: reviewType,
		Email:      email,
		CreatedAt:  time.Now(),
	}

	data, err := r.files.Retrieve(ctx, documentRef)
	if err != nil {
		log.Printf("Failed to retrieve document %s: %v", documentRef, err)
		result.Error = fmt.Sprintf("retrieve document: %v", err)
		return result
	}

	doc, err := cv.Extract(data, contentTypeFromRef(documentRef))
	if err != nil {
		log.Printf("Failed to extract text from %s: %v", documentRef, err)
		result.Error = fmt.Sprintf("extract document: %v", err)
		return result
	}

	analysis := r.analyze(ctx, doc, reviewType)
	result.Insights = analysis.Insights
	result.Score = analysis.Score
	result.Provider = analysis.Provider
	result.Success = true

	if reviewType == models.ReviewTypeAdvanced && r.reports != nil {
		ref, url, err := r.reports.Render(ctx, userID, result)
		if err != nil {
			// The analysis already succeeded; deliver without a report
			log.Printf("Report rendering failed for %s: %v", userID, err)
		} else {
			result.ReportRef = ref
			result.DownloadURL = url
		}
	}

	if email != "" && reviewType == models.ReviewTypeAdvanced && r.emails != nil {
		if err := r.emails.SendReviewEmail(email, result); err != nil {
			log.Printf("Email delivery to %s failed: %v", email, err)
			result.EmailSent = false
		} else {
			result.EmailSent = true
		}
	}

	if err := r.store.CreateReview(result); err != nil {
		log.Printf("Failed to persist review %s: %v", result.ID, err)
	}

	log.Printf("Completed %s review %s for %s", reviewType, result.ID, userID)
	return result
}

// analyze prefers the external API and falls back to the deterministic
// local heuristic, which always produces something.
func (r *ReviewService) analyze(ctx context.Context, doc *cv.Document, reviewType string) *Analysis {
	if r.analyzer != nil {
		analysis, err := r.analyzer.Analyze(ctx, doc, reviewType)
		if err == nil && len(analysis.Insights) > 0 {
			if reviewType == models.ReviewTypeAdvanced {
				analysis.Score = clampScore(analysis.Score)
			}
			return analysis
		}
		log.Printf("Analysis API unavailable, using internal analysis: %v", err)
	}

	if reviewType == models.ReviewTypeAdvanced {
		score, insights := cv.AnalyzeAdvanced(doc)
		return &Analysis{Insights: insights, Score: score, Provider: "Internal Analysis"}
	}

	return &Analysis{Insights: cv.AnalyzeBasic(doc), Provider: "Internal Analysis"}
}

func clampScore(score int) int {
	if score < 40 {
		return 40
	}
	if score > 95 {
		return 95
	}
	return score
}

func contentTypeFromRef(ref string) string {
	switch {
	case strings.HasSuffix(ref, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(ref, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(ref, ".doc"):
		return "application/msword"
	case strings.HasSuffix(ref, ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
