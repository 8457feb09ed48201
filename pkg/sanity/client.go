package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a minimal Sanity data API client: GROQ queries and mutations
// against one project/dataset.
type Client struct {
	projectID string
	dataset   string
	token     string
	apiBase   string
	client    *http.Client
}

// MutationResult reports the document ids touched by a mutation transaction.
type MutationResult struct {
	TransactionID string
	IDs           []string
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

func NewClient(projectID, dataset, token, apiVersion string) *Client {
	return &Client{
		projectID: projectID,
		dataset:   dataset,
		token:     token,
		apiBase:   fmt.Sprintf("https://%s.api.sanity.io/v%s", projectID, apiVersion),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithAPIBase overrides the API root. Used by tests.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = base
	return c
}

// Query runs a GROQ query with named parameters and decodes the result into
// out. A query whose result is null leaves out untouched and returns false.
func (c *Client) Query(ctx context.Context, groq string, params map[string]string, out interface{}) (bool, error) {
	values := url.Values{}
	values.Set("query", groq)
	for name, val := range params {
		// GROQ string params are passed JSON-encoded
		encoded, err := json.Marshal(val)
		if err != nil {
			return false, fmt.Errorf("failed to encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.apiBase, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build sanity query: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("sanity unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, c.problem(resp)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("sanity returned an invalid query response: %w", err)
	}
	if len(body.Result) == 0 || string(body.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(body.Result, out); err != nil {
		return false, fmt.Errorf("failed to decode sanity result: %w", err)
	}
	return true, nil
}

// Mutate submits a mutation transaction and returns the touched ids.
func (c *Client) Mutate(ctx context.Context, mutations []map[string]interface{}) (*MutationResult, error) {
	raw, err := json.Marshal(map[string]interface{}{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sanity mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true", c.apiBase, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build sanity mutation: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sanity unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.problem(resp)
	}

	var body mutateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("sanity returned an invalid mutation response: %w", err)
	}

	result := &MutationResult{TransactionID: body.TransactionID}
	for _, r := range body.Results {
		result.IDs = append(result.IDs, r.ID)
	}
	return result, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) problem(resp *http.Response) error {
	var body errorResponse
	if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error.Description != "" {
		return fmt.Errorf("sanity error (%d): %s", resp.StatusCode, body.Error.Description)
	}
	return fmt.Errorf("sanity returned status %d", resp.StatusCode)
}
