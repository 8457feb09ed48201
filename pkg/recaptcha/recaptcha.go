package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Tokens issued by the widget are long opaque strings; anything shorter is
// garbage and not worth a round-trip to Google.
const minTokenLength = 20

// Result is the outcome of a single verification attempt.
type Result struct {
	Success bool
	Reason  string
}

// siteverifyResponse mirrors Google's verification response body.
type siteverifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks reCAPTCHA tokens against Google's siteverify endpoint.
// It fails closed: any misconfiguration, transport failure, or non-success
// response is reported as a rejected verification, never retried.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:    secret,
		verifyURL: defaultVerifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the verification URL. Used by tests.
func (v *Verifier) WithEndpoint(u string) *Verifier {
	v.verifyURL = u
	return v
}

// Verify checks a client token. At most one outbound call is made, and only
// after the token passes the local sanity checks.
func (v *Verifier) Verify(ctx context.Context, token string) Result {
	if v.secret == "" {
		return Result{Success: false, Reason: "reCAPTCHA is not configured"}
	}
	if len(strings.TrimSpace(token)) < minTokenLength {
		return Result{Success: false, Reason: "Invalid reCAPTCHA token"}
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{Success: false, Reason: "reCAPTCHA verification failed"}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{Success: false, Reason: "reCAPTCHA verification unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Success: false, Reason: fmt.Sprintf("reCAPTCHA verification returned status %d", resp.StatusCode)}
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Success: false, Reason: "reCAPTCHA verification returned an invalid response"}
	}

	if !body.Success {
		reason := "reCAPTCHA verification failed"
		if len(body.ErrorCodes) > 0 {
			reason = fmt.Sprintf("reCAPTCHA verification failed: %s", strings.Join(body.ErrorCodes, ", "))
		}
		return Result{Success: false, Reason: reason}
	}

	return Result{Success: true}
}
