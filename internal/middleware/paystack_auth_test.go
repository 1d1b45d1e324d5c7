package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

func paystackApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook/paystack", ValidatePaystackSignature(testSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signBody(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackSignatureValid(t *testing.T) {
	app := paystackApp()
	body := []byte(`{"event":"charge.success","data":{"reference":"cv-review-abc"}}`)

	req := httptest.NewRequest("POST", "/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-paystack-signature", signBody(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaystackSignaturePrefixed(t *testing.T) {
	app := paystackApp()
	body := []byte(`{"event":"charge.success"}`)

	req := httptest.NewRequest("POST", "/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", "sha512="+signBody(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaystackSignatureInvalid(t *testing.T) {
	app := paystackApp()
	body := []byte(`{"event":"charge.success"}`)

	req := httptest.NewRequest("POST", "/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", signBody([]byte("tampered")))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPaystackSignatureMissing(t *testing.T) {
	app := paystackApp()

	req := httptest.NewRequest("POST", "/webhook/paystack", bytes.NewReader([]byte("{}")))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
