package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBase = "https://mandrillapp.com/api/1.0"

// Client sends transactional email through the Mandrill messages API.
type Client struct {
	apiKey   string
	apiBase  string
	fromName string
	from     string
	client   *http.Client
}

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the settled outcome of one send attempt.
type SendResult struct {
	Success bool
	ID      string
	Error   string
}

type sendRequest struct {
	Key     string      `json:"key"`
	Message wireMessage `json:"message"`
}

type wireMessage struct {
	HTML      string            `json:"html"`
	Subject   string            `json:"subject"`
	FromEmail string            `json:"from_email"`
	FromName  string            `json:"from_name"`
	To        []wireRecipient   `json:"to"`
	Headers   map[string]string `json:"headers,omitempty"`
}

type wireRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
}

type sendResponseEntry struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason"`
	ID           string `json:"_id"`
}

type apiError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	return &Client{
		apiKey:   apiKey,
		apiBase:  defaultAPIBase,
		from:     fromEmail,
		fromName: fromName,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// WithAPIBase overrides the API root. Used by tests.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = base
	return c
}

// Send delivers one message. Expected provider rejections come back as a
// failed SendResult with the reject reason, not as an error.
func (c *Client) Send(ctx context.Context, msg Message) SendResult {
	if c.apiKey == "" {
		return SendResult{Success: false, Error: "email service is not configured"}
	}
	if msg.To == "" {
		return SendResult{Success: false, Error: "message has no recipient"}
	}

	payload := sendRequest{
		Key: c.apiKey,
		Message: wireMessage{
			HTML:      msg.HTML,
			Subject:   msg.Subject,
			FromEmail: c.from,
			FromName:  c.fromName,
			To:        []wireRecipient{{Email: msg.To, Name: msg.ToName, Type: "to"}},
		},
	}
	if msg.ReplyTo != "" {
		payload.Message.Headers = map[string]string{"Reply-To": msg.ReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Success: false, Error: fmt.Sprintf("failed to encode message: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/messages/send.json", bytes.NewReader(body))
	if err != nil {
		return SendResult{Success: false, Error: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return SendResult{Success: false, Error: fmt.Sprintf("email provider unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return SendResult{Success: false, Error: fmt.Sprintf("email provider error: %s", apiErr.Message)}
		}
		return SendResult{Success: false, Error: fmt.Sprintf("email provider returned status %d", resp.StatusCode)}
	}

	var entries []sendResponseEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return SendResult{Success: false, Error: "email provider returned an invalid response"}
	}
	if len(entries) == 0 {
		return SendResult{Success: false, Error: "email provider returned no delivery status"}
	}

	entry := entries[0]
	switch entry.Status {
	case "sent", "queued", "scheduled":
		return SendResult{Success: true, ID: entry.ID}
	case "rejected":
		return SendResult{Success: false, Error: fmt.Sprintf("message rejected: %s", entry.RejectReason)}
	default:
		return SendResult{Success: false, Error: fmt.Sprintf("message not delivered (status %q)", entry.Status)}
	}
}
