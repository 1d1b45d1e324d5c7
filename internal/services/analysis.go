package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/cv"
	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// APIAnalyzer calls the external CV analysis API. The upstream response
// shape has drifted over time, so parsing is tolerant: insights are
// collected from every field name the API has been seen to use, and an
// answer with no insights at all is an error so the caller falls back.
type APIAnalyzer struct {
	url        string
	httpClient *http.Client
}

// NewAPIAnalyzer creates an analyzer against the given endpoint.
func NewAPIAnalyzer(url string) *APIAnalyzer {
	return &APIAnalyzer{
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Analyze uploads the extracted CV text and maps the response to an
// Analysis. One attempt, no retries.
func (a *APIAnalyzer) Analyze(ctx context.Context, doc *cv.Document, reviewType string) (*Analysis, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("cv", "cv.txt")
	if err != nil {
		return nil, fmt.Errorf("build upload: %v", err)
	}
	if _, err := part.Write([]byte(doc.Text)); err != nil {
		return nil, fmt.Errorf("build upload: %v", err)
	}

	_ = writer.WriteField("job_title", "General Application")
	_ = writer.WriteField("job_description", "Seeking opportunities in various industries. Review CV for general job applications.")
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build analysis request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analysis API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis API returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse analysis response: %v", err)
	}

	if errMsg, ok := result["error"].(string); ok && errMsg != "" {
		return nil, fmt.Errorf("analysis API error: %s", errMsg)
	}

	insights := collectInsights(result)
	if len(insights) == 0 {
		return nil, fmt.Errorf("no insights in analysis response")
	}

	limit := 8
	if reviewType == models.ReviewTypeAdvanced {
		limit = 10
	}
	if len(insights) > limit {
		insights = insights[:limit]
	}

	analysis := &Analysis{
		Insights: insights,
		Provider: "CV Analyzer API",
	}

	if reviewType == models.ReviewTypeAdvanced {
		analysis.Score = extractScore(result)
	}

	log.Printf("Analysis API returned %d insights", len(insights))
	return analysis, nil
}

// collectInsights gathers suggestions from section feedback and every
// list-shaped field the API is known to respond with.
func collectInsights(result map[string]interface{}) []string {
	var insights []string

	if feedback, ok := result["section_feedback"].(map[string]interface{}); ok {
		for section, details := range feedback {
			switch d := details.(type) {
			case map[string]interface{}:
				suggestion, _ := d["suggestion"].(string)
				if suggestion == "" {
					suggestion, _ = d["feedback"].(string)
				}
				if suggestion != "" {
					insights = append(insights, fmt.Sprintf("%s: %s", strings.ToUpper(section), suggestion))
				}
			case string:
				if d != "" {
					insights = append(insights, fmt.Sprintf("%s: %s", strings.ToUpper(section), d))
				}
			}
		}
	}

	for _, field := range []string{"general_suggestions", "feedback", "suggestions", "improvements", "recommendations"} {
		items, ok := result[field].([]interface{})
		if !ok {
			continue
		}
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" && !contains(insights, s) {
				insights = append(insights, s)
			}
		}
	}

	return insights
}

func extractScore(result map[string]interface{}) int {
	for _, field := range []string{"overall_score", "score", "cv_score"} {
		if v, ok := result[field].(float64); ok {
			return int(v)
		}
	}
	return 65
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
