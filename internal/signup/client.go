package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrInvalidNumber indicates input that is not a phone number.
	ErrInvalidNumber = errors.New("signup: invalid phone number")

	// ErrRejected indicates the endpoint answered with a non-2xx status.
	ErrRejected = errors.New("signup: submission rejected")
)

const defaultTimeout = 10 * time.Second

// Request is the body posted to the endpoint.
type Request struct {
	Number string `json:"number"`
}

// Normalize strips formatting from a North American number, returning ten
// digits. A leading country code 1 is accepted and dropped.
func Normalize(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '(' || r == ')' || r == '.' || r == '+':
		default:
			return "", fmt.Errorf("%w: unexpected %q", ErrInvalidNumber, r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", fmt.Errorf("%w: need 10 digits, got %d", ErrInvalidNumber, len(digits))
	}
	return digits, nil
}

// Submitter delivers a normalized number somewhere.
type Submitter interface {
	Submit(ctx context.Context, number string) error
}

// Client posts numbers to the collector's /ping endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) Submit(ctx context.Context, number string) error {
	body, err := json.Marshal(Request{Number: number})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("signup: post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Status)
	}
	return nil
}
