// Package gateway issues typed HTTP requests against the remote Urgent2kay
// API and normalizes its {success, data|message} envelope into errors the
// rest of the client can branch on.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/urgent2kay/dashboard-core/internal/errs"
)

// TokenSource supplies the current bearer credential. An empty string means
// the request goes out unauthenticated; gating of protected queries happens
// upstream in the query coordinator.
type TokenSource interface {
	Token() string
}

// Client is the typed HTTP surface over the remote API.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	log      *zap.Logger
	validate *validator.Validate
}

// NewClient constructs a gateway client. tokens may be nil for a client that
// only performs public requests.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// envelope is the JSON convention every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do executes one request/response cycle. body is JSON-encoded when non-nil;
// the envelope's data field is unmarshaled into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Info("api",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", errs.ErrNetwork, err)
	}

	var env envelope
	// a non-envelope body is tolerated; the status code still decides
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, env.Message)
	}
	if !env.Success {
		return serverError(errs.ErrNetwork, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// statusError maps an HTTP status to the error taxonomy, preserving the
// server-provided message when present.
func statusError(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return serverError(errs.ErrAuthRequired, msg)
	case http.StatusNotFound:
		return serverError(errs.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return serverError(errs.ErrValidation, msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("server returned status %d", status)
		}
		return serverError(errs.ErrNetwork, msg)
	}
}

func serverError(sentinel error, msg string) error {
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// checkPayload validates an outgoing payload before any network I/O.
func (c *Client) checkPayload(p any) error {
	if err := c.validate.Struct(p); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", errs.ErrValidation, verr.Error())
		}
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}
