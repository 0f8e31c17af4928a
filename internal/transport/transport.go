// Package transport posts JSON payloads to the task store endpoint.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ContentType is sent with every request.
const ContentType = "application/json"

// RequestIDHeader carries a per-request ID for log correlation.
const RequestIDHeader = "X-Request-Id"

// ErrNotJSON is returned when the response body is not valid JSON.
var ErrNotJSON = errors.New("response is not JSON")

// Error describes a failed Send.
type Error struct {
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transport sends every request as a POST to one fixed URL.
// All intent lives in the JSON body; there is no path routing.
type Transport struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Transport. A nil client uses http.DefaultClient and a nil
// logger discards output.
func New(endpoint string, client *http.Client, logger *slog.Logger) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transport{endpoint: endpoint, client: client, logger: logger}
}

// Endpoint returns the URL requests are posted to.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// Send posts payload as JSON and decodes the response body into out.
// If out is nil the body is still required to be JSON.
// HTTP status codes are not interpreted: any JSON reply counts as success.
func (t *Transport) Send(ctx context.Context, payload any, out any) error {
	id := uuid.NewString()

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{RequestID: id, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{RequestID: id, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", ContentType)
	req.Header.Set(RequestIDHeader, id)

	t.logger.Debug("sending request", "request_id", id, "body", string(body))

	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{RequestID: id, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{RequestID: id, Err: fmt.Errorf("read response: %w", err)}
	}

	t.logger.Debug("received response", "request_id", id, "status", resp.StatusCode, "bytes", len(data))

	if !json.Valid(data) {
		return &Error{RequestID: id, Err: ErrNotJSON}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{RequestID: id, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
