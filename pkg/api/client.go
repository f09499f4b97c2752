package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ── REST Backend Client ─────────────────────────────────────
// All application state lives behind the backend; this client only shapes
// requests and maps the failure envelope. Every call carries a hard timeout
// so a hung request resolves into the caller's failure branch instead of
// leaving an in-flight flag stuck.

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// APIError is a server-reported application error (non-2xx status). The
// message is shown to the user verbatim when the backend sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do performs a JSON round trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send finishes a request: auth header, request id, failure envelope.
func (c *Client) send(req *http.Request, out interface{}) error {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failure: backend unreachable, DNS, timeout. Generic
		// message; the raw cause goes to the log only.
		log.Debug().Err(err).Str("path", req.URL.Path).Msg("request failed")
		return fmt.Errorf("failed to connect to the server")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError maps a non-2xx body to an APIError: the backend's {error}
// message when parseable, otherwise a generic status line.
func decodeError(status int, raw []byte) *APIError {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return &APIError{Status: status, Message: envelope.Error}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))}
}
