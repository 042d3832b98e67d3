package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ApplicationNotice tells a project creator that someone applied.
type ApplicationNotice struct {
	To          string
	ProjectName string
	Applicant   string
	Skills      string
	ContactInfo string
	Information string
}

// Notifier delivers application notices.
type Notifier interface {
	NotifyApplication(ctx context.Context, notice ApplicationNotice) error
}

// NopNotifier drops every notice.
type NopNotifier struct{}

func (NopNotifier) NotifyApplication(context.Context, ApplicationNotice) error { return nil }

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendNotifier sends notices as e-mail through the Resend API.
type ResendNotifier struct {
	apiKey    string
	fromEmail string
	endpoint  string
	client    *http.Client
}

// NewNotifier returns a Resend notifier, or a NopNotifier when e-mail is not configured.
func NewNotifier(cfg config.EmailConfig) Notifier {
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		log.Info().Msg("Resend not configured, application e-mails disabled")
		return NopNotifier{}
	}
	return &ResendNotifier{
		apiKey:    cfg.ResendAPIKey,
		fromEmail: cfg.FromEmail,
		endpoint:  resendEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *ResendNotifier) NotifyApplication(ctx context.Context, notice ApplicationNotice) error {
	body := fmt.Sprintf(
		"<p><strong>%s</strong> applied to <strong>%s</strong>.</p><p>Skills: %s</p><p>Contact: %s</p><p>%s</p>",
		html.EscapeString(notice.Applicant),
		html.EscapeString(notice.ProjectName),
		html.EscapeString(notice.Skills),
		html.EscapeString(notice.ContactInfo),
		html.EscapeString(notice.Information),
	)
	return n.SendEmail(ctx, fmt.Sprintf("New application for %s", notice.ProjectName), body, []string{notice.To})
}

// SendEmail sends an HTML e-mail to recipients.
func (n *ResendNotifier) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    n.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(jsonPayload))
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
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
