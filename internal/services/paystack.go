package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sherlockbot/cv-review-backend/internal/config"
)

const paystackBaseURL = "https://api.paystack.co"

// PaymentSession is a newly initialized transaction the user can pay at.
type PaymentSession struct {
	Reference  string
	PaymentURL string
	AccessCode string
}

// PaymentVerification is the gateway's answer for one reference.
type PaymentVerification struct {
	Success  bool
	Amount   int
	Currency string
	PaidAt   string
	Metadata map[string]interface{}
}

// PaystackService creates and verifies payment transactions against the
// Paystack API. One attempt per call, bounded timeout, no retries.
type PaystackService struct {
	secretKey  string
	baseURL    string
	successURL string
	httpClient *http.Client
}

// NewPaystackService creates a new Paystack service.
func NewPaystackService(cfg *config.Config) *PaystackService {
	return &PaystackService{
		secretKey:  cfg.PaystackSecretKey,
		baseURL:    paystackBaseURL,
		successURL: cfg.BaseURL + "/payment/success",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateSession initializes a transaction and returns the hosted payment
// URL. Amount is in the currency's major unit; Paystack wants kobo/cents.
func (p *PaystackService) CreateSession(userID string, amount int, currency string) (*PaymentSession, error) {
	reference := fmt.Sprintf("cv-review-%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:10])

	payload := map[string]interface{}{
		"amount":       amount * 100,
		"currency":     currency,
		"email":        fmt.Sprintf("%s@whatsapp.sherlockbot.com", strings.TrimPrefix(userID, "+")),
		"reference":    reference,
		"callback_url": p.successURL,
		"metadata": map[string]interface{}{
			"phone_number": userID,
			"product_name": "Advanced CV Review",
			"service":      "sherlock_bot",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payment payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paystack API error: %d - %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Status bool `json:"status"`
		Data   struct {
			Reference        string `json:"reference"`
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paystack response: %v", err)
	}
	if !result.Status {
		return nil, fmt.Errorf("paystack rejected transaction initialize")
	}

	log.Printf("Payment session created for %s with reference %s", userID, result.Data.Reference)

	return &PaymentSession{
		Reference:  result.Data.Reference,
		PaymentURL: result.Data.AuthorizationURL,
		AccessCode: result.Data.AccessCode,
	}, nil
}

// Verify re-checks a reference with the gateway. Webhook payloads are
// never trusted on their own.
func (p *PaystackService) Verify(reference string) (*PaymentVerification, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify transaction: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paystack verification error: %d - %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string                 `json:"status"`
			Amount   int                    `json:"amount"`
			Currency string                 `json:"currency"`
			PaidAt   string                 `json:"paid_at"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode verification response: %v", err)
	}

	if !result.Status || result.Data.Status != "success" {
		return &PaymentVerification{Success: false}, nil
	}

	return &PaymentVerification{
		Success:  true,
		Amount:   result.Data.Amount / 100,
		Currency: result.Data.Currency,
		PaidAt:   result.Data.PaidAt,
		Metadata: result.Data.Metadata,
	}, nil
}
