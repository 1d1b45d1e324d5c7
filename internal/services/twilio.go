package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sherlockbot/cv-review-backend/internal/config"
)

// TwilioService sends WhatsApp messages and fetches inbound media via
// the Twilio API.
type TwilioService struct {
	client     *twilio.RestClient
	from       string
	accountSID string
	authToken  string
	httpClient *http.Client
}

// NewTwilioService creates a new Twilio service instance.
func NewTwilioService(cfg *config.Config) (*TwilioService, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioService{
		client:     client,
		from:       cfg.TwilioWhatsAppFrom,
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SendMessage sends a WhatsApp text message.
func (t *TwilioService) SendMessage(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp message to %s: %v", to, err)
		return err
	}

	log.Printf("WhatsApp message sent, SID: %s", *resp.Sid)
	return nil
}

// FetchMedia downloads an inbound attachment from a Twilio media URL.
// Media URLs require basic auth with the account credentials.
func (t *TwilioService) FetchMedia(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build media request: %v", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch media: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
