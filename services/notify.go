package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
)

const resendAPIURL = "https://api.resend.com/emails"

// ContactNotifier tells the site owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// NopNotifier is used when no mail provider is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyContact(context.Context, models.ContactMessage) error { return nil }

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type ResendNotifier struct {
	apiKey string
	from   string
	to     string
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewContactNotifier returns a Resend backed notifier when mail is configured and a no-op otherwise.
func NewContactNotifier(cfg config.MailConfig) ContactNotifier {
	if !cfg.Enabled() {
		return NopNotifier{}
	}
	return &ResendNotifier{
		apiKey: cfg.ResendAPIKey,
		from:   cfg.FromEmail,
		to:     cfg.NotifyEmail,
		url:    resendAPIURL,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: log.With().Str("service", "notify").Logger(),
	}
}

func (n *ResendNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	subject := "New contact message from " + msg.Name
	if msg.Subject != nil && strings.TrimSpace(*msg.Subject) != "" {
		subject = "Contact: " + strings.TrimSpace(*msg.Subject)
	}

	payload := ResendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Html:    contactEmailBody(msg),
		ReplyTo: msg.Email,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Str("contactID", msg.ID.String()).Msg("contact notification sent")
	}
	return nil
}

func contactEmailBody(msg models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(msg.Name), html.EscapeString(msg.Email))
	if msg.Subject != nil {
		fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(*msg.Subject))
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	return b.String()
}
