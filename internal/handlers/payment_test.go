package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

func (f *webhookFixture) postJSON(t *testing.T, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func seedAwaitingPayment(f *webhookFixture, reference string) {
	session := models.NewSession(testPhone)
	session.State = models.StateAwaitingPayment
	session.ReviewType = models.ReviewTypeAdvanced
	session.DocumentRef = "cv-uploads/x/doc.txt"
	session.PaymentRef = reference
	if err := f.store.SaveSession(session); err != nil {
		panic(err)
	}
	record := &models.PaymentRecord{
		Reference: reference,
		UserID:    testPhone,
		Amount:    5000,
		Currency:  "NGN",
		Status:    models.PaymentStatusPending,
	}
	if err := f.store.CreatePayment(record); err != nil {
		panic(err)
	}
}

func TestPaystackWebhookChargeSuccess(t *testing.T) {
	f := newWebhookFixture()
	seedAwaitingPayment(f, "cv-review-abc123")

	body := `{
		"event": "charge.success",
		"data": {
			"reference": "cv-review-abc123",
			"status": "success",
			"metadata": {"phone_number": "` + testPhone + `"}
		}
	}`

	status := f.postJSON(t, "/webhook/paystack", body)
	assert.Equal(t, fiber.StatusOK, status)

	session, err := f.store.GetSession(testPhone)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingEmail, session.State)

	record, err := f.store.GetPayment("cv-review-abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, record.Status)

	require.NotEmpty(t, f.messenger.sent)
	assert.Contains(t, f.messenger.sent[0], "payment has been confirmed")
}

func TestPaystackWebhookOtherEventIgnored(t *testing.T) {
	f := newWebhookFixture()
	seedAwaitingPayment(f, "cv-review-abc123")

	body := `{"event": "transfer.success", "data": {"reference": "cv-review-abc123"}}`

	status := f.postJSON(t, "/webhook/paystack", body)
	assert.Equal(t, fiber.StatusOK, status)

	session, err := f.store.GetSession(testPhone)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingPayment, session.State)
	assert.Empty(t, f.messenger.sent)
}

func TestPaystackWebhookUnverifiedChargeIgnored(t *testing.T) {
	f := newWebhookFixture()
	seedAwaitingPayment(f, "cv-review-abc123")
	f.payments.verifyFail = true

	body := `{"event": "charge.success", "data": {"reference": "cv-review-abc123"}}`

	status := f.postJSON(t, "/webhook/paystack", body)
	assert.Equal(t, fiber.StatusOK, status)

	session, err := f.store.GetSession(testPhone)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingPayment, session.State)
}

func TestPaymentSuccessLandingPage(t *testing.T) {
	f := newWebhookFixture()

	req := httptest.NewRequest("GET", "/payment/success", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
