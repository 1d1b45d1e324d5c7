package middleware

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ValidatePaystackSignature validates a Paystack webhook: the raw body
// HMAC-SHA512 signed with the secret key, hex encoded, sent in the
// x-paystack-signature header.
func ValidatePaystackSignature(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("x-paystack-signature")
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Paystack signature",
			})
		}
		signature = strings.TrimPrefix(signature, "sha512=")

		mac := hmac.New(sha512.New, []byte(secretKey))
		mac.Write(c.Body())
		expected := hex.EncodeToString(mac.Sum(nil))

		if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}
