package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/mfolden/portfolio-backend/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for the Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendErrorResponse represents an error response from the Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ContactService delivers contact-form messages: an email to the site
// owner via Resend, plus an optional SMS ping via Twilio when the Twilio
// credentials are configured.
type ContactService struct {
	cfg        map[string]string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewContactService(cfg map[string]string) *ContactService {
	return &ContactService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("handlerName", "contactService").Logger(),
	}
}

// Deliver sends the message to the owner. The email is required to
// succeed; the SMS ping is best effort.
func (s *ContactService) Deliver(name, email, message string) error {
	if err := config.Require(s.cfg, "RESEND_API_KEY", "RESEND_FROM_EMAIL", "CONTACT_EMAIL"); err != nil {
		return err
	}

	subject := fmt.Sprintf("Portfolio contact from %s", name)
	body := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))

	if err := s.sendEmail(subject, body, []string{s.cfg["CONTACT_EMAIL"]}); err != nil {
		return err
	}

	s.notifySMS(fmt.Sprintf("New portfolio message from %s", name))
	return nil
}

// ChatLink builds the WhatsApp chat link from the configured contact
// phone number. Empty when no number is configured.
func (s *ContactService) ChatLink() string {
	phone := config.GetString(s.cfg, "CONTACT_PHONE", "")
	if phone == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return "https://wa.me/" + digits.String()
}

// sendEmail posts to the Resend API.
func (s *ContactService) sendEmail(subject, body string, recipients []string) error {
	payload := ResendEmailRequest{
		From:    s.cfg["RESEND_FROM_EMAIL"],
		To:      recipients,
		Subject: subject,
		Html:    body,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg["RESEND_API_KEY"])
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp ResendErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("email service: %s", errResp.Message)
		}
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
	return nil
}

// notifySMS pings the owner over Twilio when configured. Failures are
// logged and swallowed; the contact message already went out by email.
func (s *ContactService) notifySMS(body string) {
	sid := config.GetString(s.cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(s.cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(s.cfg, "TWILIO_FROM_NUMBER", "")
	to := config.GetString(s.cfg, "CONTACT_PHONE", "")
	if sid == "" || token == "" || from == "" || to == "" {
		return
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		s.logger.Warn().Err(err).Msg("SMS notification failed")
	}
}
