package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// Report download links stay valid for a week.
const reportURLTTL = 7 * 24 * time.Hour

// ReportService renders an advanced review into a downloadable HTML
// report and uploads it to the file store.
type ReportService struct {
	files FileStore
}

// NewReportService creates a new report renderer.
func NewReportService(files FileStore) *ReportService {
	return &ReportService{files: files}
}

// Render builds the report, uploads it and returns its ref plus a
// presigned download URL.
func (r *ReportService) Render(ctx context.Context, userID string, review *models.ReviewResult) (string, string, error) {
	content := renderHTML(review)

	ref, err := r.files.Store(ctx, userID, []byte(content), "text/html")
	if err != nil {
		return "", "", fmt.Errorf("upload report: %v", err)
	}

	url, err := r.files.DownloadURL(ctx, ref, reportURLTTL)
	if err != nil {
		return "", "", fmt.Errorf("presign report: %v", err)
	}

	return ref, url, nil
}

func renderHTML(review *models.ReviewResult) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html><html><head><title>CV Review Report</title></head><body>")
	b.WriteString("<h1>CV Review Report</h1>")
	fmt.Fprintf(&b, "<p>Generated on: %s</p>", time.Now().Format("2 January 2006"))
	fmt.Fprintf(&b, "<h2>CV Improvement Score: %d/100</h2>", review.Score)
	b.WriteString("<h2>Key Insights and Recommendations</h2><ol>")
	for _, insight := range review.Insights {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(insight))
	}
	b.WriteString("</ol></body></html>")

	return b.String()
}
