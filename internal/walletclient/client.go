// Package walletclient talks to the donation API on behalf of the terminal
// wallet and the overlay server.
package walletclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/donation-wallet/internal/broadcast"
	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/identity"
	"github.com/google/uuid"
)

// correlationHeader carries a per-request id the gateway logs and echoes.
const correlationHeader = "X-Correlation-ID"

var (
	// ErrUnauthorized means the identity is missing or was rejected
	ErrUnauthorized = errors.New("walletclient: unauthorized")
	// ErrUnreachable means the API could not be reached
	ErrUnreachable = errors.New("walletclient: api unreachable")
	// ErrTransport means the API answered with a failure
	ErrTransport = errors.New("walletclient: api failure")
	// ErrNotFound means the requested resource does not exist
	ErrNotFound = errors.New("walletclient: not found")
	// ErrRejected means the API refused the request as invalid
	ErrRejected = errors.New("walletclient: request rejected")
)

// HTTPDoer sends HTTP requests; *http.Client satisfies it
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer. It unwraps to one of the package sentinels.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// Client is a thin JSON client for the donation API
type Client struct {
	baseURL  string
	doer     HTTPDoer
	identity identity.Provider
	logger   *slog.Logger
}

func New(baseURL string, doer HTTPDoer, id identity.Provider, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		doer:     doer,
		identity: id,
		logger:   logger,
	}
}

// NewFromConfig builds a client with an http.Client bounded by the configured timeout
func NewFromConfig(cfg *config.WalletConfig, id identity.Provider, logger *slog.Logger) *Client {
	return New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, id, logger)
}

// envelope mirrors the gateway's response wrapper
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlation_id"`
}

// do sends the request and decodes the envelope's data into out. Requests
// with authenticated set carry the bearer token; a 401 on them signals the
// identity provider.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authenticated bool) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("walletclient: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("walletclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(correlationHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		token, err := c.identity.Token()
		if err != nil {
			if errors.Is(err, identity.ErrNoIdentity) {
				return ErrUnauthorized
			}
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, kind: kindForStatus(resp.StatusCode)}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			c.identity.Unauthorized()
		}
		c.logger.Debug("API returned an error",
			"method", method, "path", path, "status", resp.StatusCode,
			"code", apiErr.Code, "correlation_id", env.CorrelationID,
		)
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %w", ErrTransport, err)
		}
	}
	return nil
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 400 && status < 500:
		return ErrRejected
	default:
		return ErrTransport
	}
}

// selectedQuery builds the query of the donations-by-ids endpoint
func selectedQuery(ids []string) url.Values {
	return url.Values{broadcast.QueryParam: []string{broadcast.Encode(ids)}}
}
