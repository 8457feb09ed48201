package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Mailchimp marketing API for a single audience.
type Client struct {
	apiKey     string
	audienceID string
	apiBase    string
	client     *http.Client
}

// Member is the list-membership state returned by an upsert.
type Member struct {
	ID                string
	Status            string
	AlreadySubscribed bool
}

type memberResponse struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type memberRequest struct {
	// Omitted on PATCH: the member is addressed by hash, and the API rejects
	// an empty email_address when the field is present.
	EmailAddress string            `json:"email_address,omitempty"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

type apiProblem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

func NewClient(apiKey, audienceID, serverPrefix string) *Client {
	return &Client{
		apiKey:     apiKey,
		audienceID: audienceID,
		apiBase:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", serverPrefix),
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// WithAPIBase overrides the API root. Used by tests.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = base
	return c
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.audienceID != ""
}

// SubscriberHash is Mailchimp's member key: MD5 of the lowercased address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// UpsertMember makes the audience membership for email subscribed, creating
// the member if absent. Idempotent: a member that is already subscribed is
// reported as success with AlreadySubscribed set.
func (c *Client) UpsertMember(ctx context.Context, email, name string) (*Member, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("mailchimp is not configured")
	}

	hash := SubscriberHash(email)
	existing, err := c.getMember(ctx, hash)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return c.createMember(ctx, email, name)
	}
	if existing.Status == "subscribed" {
		return &Member{ID: existing.ID, Status: existing.Status, AlreadySubscribed: true}, nil
	}
	return c.patchMember(ctx, hash, name)
}

// getMember returns nil without error when the member does not exist.
func (c *Client) getMember(ctx context.Context, hash string) (*memberResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/lists/"+c.audienceID+"/members/"+hash, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.problem(resp)
	}

	var member memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("mailchimp returned an invalid member response: %w", err)
	}
	return &member, nil
}

func (c *Client) createMember(ctx context.Context, email, name string) (*Member, error) {
	body := memberRequest{
		EmailAddress: email,
		Status:       "subscribed",
	}
	if name != "" {
		body.MergeFields = map[string]string{"FNAME": name}
	}

	resp, err := c.do(ctx, http.MethodPost, "/lists/"+c.audienceID+"/members", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.problem(resp)
	}

	var member memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("mailchimp returned an invalid member response: %w", err)
	}
	return &Member{ID: member.ID, Status: member.Status}, nil
}

func (c *Client) patchMember(ctx context.Context, hash, name string) (*Member, error) {
	body := memberRequest{Status: "subscribed"}
	if name != "" {
		body.MergeFields = map[string]string{"FNAME": name}
	}

	resp, err := c.do(ctx, http.MethodPatch, "/lists/"+c.audienceID+"/members/"+hash, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.problem(resp)
	}

	var member memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("mailchimp returned an invalid member response: %w", err)
	}
	return &Member{ID: member.ID, Status: member.Status}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode mailchimp request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build mailchimp request: %w", err)
	}
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailchimp unreachable: %w", err)
	}
	return resp, nil
}

func (c *Client) problem(resp *http.Response) error {
	var prob apiProblem
	if json.NewDecoder(resp.Body).Decode(&prob) == nil && prob.Title != "" {
		return fmt.Errorf("mailchimp error (%d): %s: %s", resp.StatusCode, prob.Title, prob.Detail)
	}
	return fmt.Errorf("mailchimp returned status %d", resp.StatusCode)
}
