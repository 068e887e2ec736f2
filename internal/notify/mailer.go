// Package notify delivers sighting notifications to pet owners. Delivery is
// best-effort on every path: the persisted report is the durable fact and a
// lost email never fails the request that produced it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"time"
)

// Mailer sends a single email. Implementations must be safe for concurrent
// use by request handlers and the queue consumer.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// DevMailer is used when no mail provider is configured. It logs the
// envelope instead of sending, which keeps local development observable.
type DevMailer struct{}

func (DevMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("mail: dev mode, skipping send to=%s subject=%q", to, subject)
	return nil
}

// ResendMailer delivers mail through the Resend HTTP API.
type ResendMailer struct {
	APIKey string
	From   string
	Client *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{APIKey: apiKey, From: from, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    m.From,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail: resend returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// SightingSubject formats the notification subject for a pet.
func SightingSubject(petName string) string {
	return fmt.Sprintf("Possible sighting of %s", petName)
}

// SightingBody formats the notification HTML body. Reporter-supplied values
// are escaped since they come straight from a public form.
func SightingBody(petName, reporterName, reporterPhone, location, details string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h2>Sighting of %s</h2>", html.EscapeString(petName))
	fmt.Fprintf(&b, "<p><b>Reported by:</b> %s (%s)</p>",
		html.EscapeString(reporterName), html.EscapeString(reporterPhone))
	if location != "" {
		fmt.Fprintf(&b, "<p><b>Location:</b> %s</p>", html.EscapeString(location))
	}
	if details != "" {
		fmt.Fprintf(&b, "<p><b>Details:</b> %s</p>", html.EscapeString(details))
	}
	return b.String()
}
