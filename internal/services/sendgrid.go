package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/config"
	"github.com/sherlockbot/cv-review-backend/internal/models"
)

const sendgridSendURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridService delivers review reports by email. Delivery is a side
// channel: callers treat failures as non-fatal.
type SendGridService struct {
	apiKey     string
	from       string
	fromName   string
	sendURL    string
	httpClient *http.Client
}

// NewSendGridService creates a new SendGrid mail service.
func NewSendGridService(cfg *config.Config) *SendGridService {
	return &SendGridService{
		apiKey:     cfg.SendGridAPIKey,
		from:       cfg.EmailFrom,
		fromName:   cfg.EmailFromName,
		sendURL:    sendgridSendURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendReviewEmail mails the advanced review summary with the report link.
func (s *SendGridService) SendReviewEmail(to string, review *models.ReviewResult) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid API key not configured")
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{
				"to":      []map[string]string{{"email": to}},
				"subject": "Your Advanced CV Review is Ready",
			},
		},
		"from": map[string]string{
			"email": s.from,
			"name":  s.fromName,
		},
		"content": []map[string]string{
			{
				"type":  "text/html",
				"value": reviewEmailHTML(review),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error: %d - %s", resp.StatusCode, string(raw))
	}

	return nil
}

func reviewEmailHTML(review *models.ReviewResult) string {
	var b strings.Builder
	b.WriteString("<h1>Your Advanced CV Review</h1>")
	fmt.Fprintf(&b, "<p><strong>CV Score: %d/100</strong></p>", review.Score)
	b.WriteString("<h2>Key Insights</h2><ul>")
	for _, insight := range review.Insights {
		fmt.Fprintf(&b, "<li>%s</li>", insight)
	}
	b.WriteString("</ul>")
	if review.DownloadURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Download your full report</a></p>`, review.DownloadURL)
	}
	return b.String()
}
