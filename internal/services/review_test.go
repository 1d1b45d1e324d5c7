package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

func TestRunBasicReviewSucceedsAndPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	svc := NewReviewService(store, files, nil, &fakeReports{}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeBasic, "")

	require.True(t, result.Success)
	assert.Equal(t, "Internal Analysis", result.Provider)
	assert.GreaterOrEqual(t, len(result.Insights), 5)
	assert.LessOrEqual(t, len(result.Insights), 8)
	assert.Empty(t, result.DownloadURL)

	stored, err := store.GetReview(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Insights, stored.Insights)
}

func TestRunAdvancedReviewRendersReport(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	svc := NewReviewService(store, files, nil, &fakeReports{}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeAdvanced, "")

	require.True(t, result.Success)
	assert.GreaterOrEqual(t, result.Score, 40)
	assert.LessOrEqual(t, result.Score, 95)
	assert.NotEmpty(t, result.ReportRef)
	assert.NotEmpty(t, result.DownloadURL)
}

func TestRunRetrieveFailureNotPersisted(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	files.retrieveErr = fmt.Errorf("bucket gone")

	svc := NewReviewService(store, files, nil, &fakeReports{}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, "cv-uploads/x/missing.txt", models.ReviewTypeBasic, "")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	_, err := store.GetReview(result.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunPrefersExternalAnalyzer(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	analyzer := &fakeAnalyzer{analysis: &Analysis{
		Insights: []string{"EXPERIENCE: quantify your impact."},
		Score:    120,
		Provider: "CV Analyzer API",
	}}

	svc := NewReviewService(store, files, analyzer, &fakeReports{}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeAdvanced, "")

	require.True(t, result.Success)
	assert.Equal(t, "CV Analyzer API", result.Provider)
	assert.Equal(t, 95, result.Score, "out-of-range API scores are clamped")
	assert.Equal(t, 1, analyzer.calls)
}

func TestRunFallsBackWhenAnalyzerFails(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	analyzer := &fakeAnalyzer{err: fmt.Errorf("api timeout")}

	svc := NewReviewService(store, files, analyzer, &fakeReports{}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeBasic, "")

	require.True(t, result.Success)
	assert.Equal(t, "Internal Analysis", result.Provider)
	assert.NotEmpty(t, result.Insights)
}

func TestRunToleratesReportFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	svc := NewReviewService(store, files, nil, &fakeReports{err: fmt.Errorf("upload failed")}, &fakeEmailer{})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeAdvanced, "")

	require.True(t, result.Success)
	assert.Empty(t, result.DownloadURL)

	_, err := store.GetReview(result.ID)
	assert.NoError(t, err, "review persists even without a report")
}

func TestRunToleratesEmailFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)

	svc := NewReviewService(store, files, nil, &fakeReports{}, &fakeEmailer{err: fmt.Errorf("sendgrid 500")})
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeAdvanced, "jane@example.com")

	require.True(t, result.Success)
	assert.False(t, result.EmailSent)
}

func TestRunSendsEmailWhenRequested(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)
	emailer := &fakeEmailer{}

	svc := NewReviewService(store, files, nil, &fakeReports{}, emailer)
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeAdvanced, "jane@example.com")

	require.True(t, result.Success)
	assert.True(t, result.EmailSent)
	assert.Equal(t, []string{"jane@example.com"}, emailer.sent)
}

func TestRunBasicNeverEmails(t *testing.T) {
	store := storage.NewMemoryStore()
	files := newFakeFiles()
	ref := files.seed(testUser, sampleCV)
	emailer := &fakeEmailer{}

	svc := NewReviewService(store, files, nil, &fakeReports{}, emailer)
	result := svc.Run(context.Background(), testUser, ref, models.ReviewTypeBasic, "jane@example.com")

	require.True(t, result.Success)
	assert.Empty(t, emailer.sent)
}
