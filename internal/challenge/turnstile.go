package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is Cloudflare's siteverify endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Turnstile error codes this service reacts to.
// https://developers.cloudflare.com/turnstile/get-started/server-side-validation/
const (
	ErrCodeNoToken            = "no-token"
	ErrCodeMissingInput       = "missing-input-response"
	ErrCodeInvalidInput       = "invalid-input-response"
	ErrCodeTimeoutOrDuplicate = "timeout-or-duplicate"
)

// Rejection reasons surfaced to callers after a failed verification.
var (
	ErrMissingToken   = errors.New("missing challenge token")
	ErrDuplicateToken = errors.New("duplicate challenge token")
	ErrInvalidToken   = errors.New("invalid challenge token")
)

// Outcome models the siteverify response. ChallengeTS is the instant the
// visitor actually solved the challenge; registration window checks compare
// against it rather than the arrival time of the request.
type Outcome struct {
	Success     bool
	ChallengeTS *time.Time
	ErrorCodes  []string
	Hostname    string
	Action      string
}

// NoTokenOutcome is the outcome for requests that carried no token at all.
func NoTokenOutcome() *Outcome {
	return &Outcome{Success: false, ErrorCodes: []string{ErrCodeNoToken}}
}

// Err maps a failed outcome to its rejection reason. Returns nil when the
// verification succeeded.
func (o *Outcome) Err() error {
	if o.Success {
		return nil
	}
	for _, code := range o.ErrorCodes {
		switch code {
		case ErrCodeNoToken, ErrCodeMissingInput:
			return ErrMissingToken
		case ErrCodeTimeoutOrDuplicate:
			return ErrDuplicateToken
		case ErrCodeInvalidInput:
			return ErrInvalidToken
		}
	}
	return ErrInvalidToken
}

// FailReason returns the first error code, for audit columns.
func (o *Outcome) FailReason() string {
	if o.Success || len(o.ErrorCodes) == 0 {
		return ""
	}
	return o.ErrorCodes[0]
}

// Verifier validates challenge tokens against the Turnstile siteverify API.
//
// Verification is not idempotent: a second call with the same token fails
// with timeout-or-duplicate. Never cache outcomes here; caching would let one
// solved challenge cover many registrations.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewVerifier creates a Turnstile verifier. verifyURL may be empty to use the
// Cloudflare endpoint; tests point it at a local server.
func NewVerifier(secret, verifyURL string) *Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type siteverifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	ErrorCodes  []string `json:"error-codes"`
	Hostname    string   `json:"hostname"`
	Action      string   `json:"action"`
}

// Verify checks the token with the siteverify API. An empty token short
// circuits to NoTokenOutcome without a network call. remoteIP is optional.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (*Outcome, error) {
	if token == "" {
		return NoTokenOutcome(), nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("siteverify status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read siteverify response: %w", err)
	}
	var sv siteverifyResponse
	if err := json.Unmarshal(body, &sv); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}

	out := &Outcome{
		Success:    sv.Success,
		ErrorCodes: sv.ErrorCodes,
		Hostname:   sv.Hostname,
		Action:     sv.Action,
	}
	if sv.ChallengeTS != "" {
		ts, err := time.Parse(time.RFC3339, sv.ChallengeTS)
		if err != nil {
			if sv.Success {
				return nil, fmt.Errorf("siteverify challenge_ts %q: %w", sv.ChallengeTS, err)
			}
		} else {
			out.ChallengeTS = &ts
		}
	} else if sv.Success {
		return nil, errors.New("siteverify success without challenge_ts")
	}
	return out, nil
}
