package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Attachment is a file attached to an outgoing message. Content is raw bytes;
// the wire layer base64-encodes it.
type Attachment struct {
	Name    string
	Content []byte
}

// Message is one outgoing notification.
type Message struct {
	RecipientName  string
	RecipientEmail string
	Subject        string
	HTMLBody       string
	Attachments    []Attachment
}

// Sender dispatches a single message. Implementations must treat each send as
// independent; the booking flow ignores delivery failures beyond logging.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer sends messages through a transactional-email HTTP API.
type Mailer struct {
	apiURL      string
	apiKey      string
	senderName  string
	senderEmail string
	httpClient  *http.Client
}

func NewMailer(apiURL, apiKey, senderName, senderEmail string) *Mailer {
	return &Mailer{
		apiURL:      apiURL,
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type mailParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type mailAttachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

type sendRequest struct {
	Sender      mailParty        `json:"sender"`
	To          []mailParty      `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
	Attachment  []mailAttachment `json:"attachment,omitempty"`
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	payload := sendRequest{
		Sender:      mailParty{Name: m.senderName, Email: m.senderEmail},
		To:          []mailParty{{Name: msg.RecipientName, Email: msg.RecipientEmail}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
	}
	for _, a := range msg.Attachments {
		payload.Attachment = append(payload.Attachment, mailAttachment{
			Content: base64.StdEncoding.EncodeToString(a.Content),
			Name:    a.Name,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.RecipientEmail, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send mail to %s: unexpected status %d: %s", msg.RecipientEmail, resp.StatusCode, string(detail))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
