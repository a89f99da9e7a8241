package apiclient

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

	"stealthcompany.com/claimsdesk/internal/metrics"
)

// DefaultBaseURL is used when no API URL is configured
const DefaultBaseURL = "http://localhost:3001"

// Client talks to the claims backend REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a backend client. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// BaseURL returns the URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the normalized result of a backend call.
// Success is false for transport failures, non-2xx statuses and undecodable bodies.
type Response[T any] struct {
	Success    bool   `json:"success"`
	Data       T      `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

// Err returns nil on success, otherwise an *Error carrying the message
func (r Response[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{StatusCode: r.StatusCode, Message: r.Error}
}

func failure[T any](statusCode int, msg string) Response[T] {
	return Response[T]{StatusCode: statusCode, Error: msg}
}

// Error is a failed backend call. StatusCode is 0 when no response arrived.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request and decodes a 2xx body into T.
// route is the templated path used as the metrics label; path is the concrete one.
func do[T any](ctx context.Context, c *Client, method, route, path string, body any) Response[T] {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return failure[T](0, fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return failure[T](0, fmt.Sprintf("failed to build request: %v", err))
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(method, route, startTime, 0)
		log.Debug().
			Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("Backend request failed")
		return failure[T](0, err.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	metrics.RecordAPIRequest(method, route, startTime, resp.StatusCode)
	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Backend request completed")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure[T](resp.StatusCode, errorMessage(resp.StatusCode, raw))
	}

	out := Response[T]{Success: true, StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return failure[T](resp.StatusCode, fmt.Sprintf("failed to decode response: %v", err))
	}
	return out
}

func errorMessage(statusCode int, raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return fmt.Sprintf("http error: status %d", statusCode)
}

// adapt converts a decoded wire payload. A missing payload is a failure.
func adapt[W, T any](r Response[*W], fn func(W) T) Response[T] {
	if !r.Success {
		return failure[T](r.StatusCode, r.Error)
	}
	if r.Data == nil {
		return failure[T](r.StatusCode, "empty response from server")
	}
	return Response[T]{Success: true, StatusCode: r.StatusCode, Data: fn(*r.Data)}
}

// discard drops the payload of a call whose body is irrelevant
func discard(r Response[json.RawMessage]) Response[struct{}] {
	return Response[struct{}]{Success: r.Success, Error: r.Error, StatusCode: r.StatusCode}
}

// Env holds the raw URL settings used to pick a base URL
type Env struct {
	AppEnv  string
	URL     string
	ProdURL string
	DevURL  string
}

// ResolveBaseURL picks the backend URL for the environment.
// Production prefers ProdURL, everything else DevURL; both fall back to URL and then DefaultBaseURL.
func ResolveBaseURL(env Env) string {
	first := env.DevURL
	if env.AppEnv == "production" {
		first = env.ProdURL
	}
	for _, u := range []string{first, env.URL} {
		if u != "" {
			return u
		}
	}
	return DefaultBaseURL
}
