package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

func TestGetOrCreateNewUser(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session, err := svc.GetOrCreate(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateWelcome, session.State)

	stored, err := store.GetSession(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateWelcome, stored.State)
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session := models.NewSession(testUser)
	session.State = models.StateAwaitingPayment
	session.PaymentRef = "cv-review-abc"
	require.NoError(t, store.SaveSession(session))

	got, err := svc.GetOrCreate(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingPayment, got.State)
	assert.Equal(t, "cv-review-abc", got.PaymentRef)
}

func TestGetOrCreateResetsExpiredSession(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session := models.NewSession(testUser)
	session.State = models.StateAwaitingEmail
	session.DocumentRef = "cv-uploads/x/doc.pdf"
	session.LastReviewID = "rev-7"
	session.LastActivityAt = time.Now().Add(-25 * time.Hour)
	require.NoError(t, store.SaveSession(session))

	got, err := svc.GetOrCreate(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateWelcome, got.State)
	assert.Empty(t, got.DocumentRef)
	assert.Equal(t, "rev-7", got.LastReviewID, "review reference survives expiry")

	stored, err := store.GetSession(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateWelcome, stored.State)
}

func TestGetOrCreateKeepsFreshSession(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session := models.NewSession(testUser)
	session.State = models.StateAwaitingCV
	session.LastActivityAt = time.Now().Add(-23 * time.Hour)
	require.NoError(t, store.SaveSession(session))

	got, err := svc.GetOrCreate(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingCV, got.State)
}

func TestSaveRefreshesActivity(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session := models.NewSession(testUser)
	session.LastActivityAt = time.Now().Add(-time.Hour)
	require.NoError(t, svc.Save(session))

	stored, err := store.GetSession(testUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stored.LastActivityAt, time.Minute)
}

func TestResetClearsEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewSessionService(store, 24*time.Hour)

	session := models.NewSession(testUser)
	session.State = models.StateCompleted
	session.DocumentRef = "cv-uploads/x/doc.pdf"
	session.Email = "jane@example.com"
	require.NoError(t, store.SaveSession(session))

	fresh, err := svc.Reset(testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StateWelcome, fresh.State)
	assert.Empty(t, fresh.DocumentRef)
	assert.Empty(t, fresh.Email)
}
