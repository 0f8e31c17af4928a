// Package actionstore implements the service.Service interface against a task
// store that multiplexes every operation through one endpoint, selected by an
// "action" field in the JSON body.
package actionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"tasksync/internal/config"
	"tasksync/internal/service"
	"tasksync/internal/session"
	"tasksync/internal/transport"
)

// ErrTimeout is returned when a request exceeds its deadline.
var ErrTimeout = errors.New("request timed out")

// Sender posts one JSON payload and decodes the JSON reply into out.
type Sender interface {
	Send(ctx context.Context, payload any, out any) error
}

// Ensure Client implements service.Service.
var _ service.Service = (*Client)(nil)

// Client implements service.Service on top of a Sender.
type Client struct {
	tr     Sender
	logger *slog.Logger

	// writeMu lets only one mutating request be in flight at a time.
	writeMu sync.Mutex
}

// New creates a client for the configured endpoint using the stored session.
// Returns session.ErrNoSession when the user is not signed in.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := session.ProviderFor(cfg)
	if err != nil {
		return nil, err
	}

	gate := session.NewGate(provider)
	if _, err := gate.Restore(ctx); err != nil {
		return nil, err
	}
	return NewForGate(ctx, cfg, gate)
}

// NewForGate creates a client whose requests carry the credentials of the
// gate's active session. Returns session.ErrNoSession without one.
func NewForGate(ctx context.Context, cfg *config.Config, gate *session.Gate) (*Client, error) {
	httpClient, err := gate.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		c := *httpClient
		c.Timeout = cfg.Timeout
		httpClient = &c
	}
	return NewWithHTTPClient(cfg.Endpoint, httpClient, cfg.Log()), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	return NewWithSender(transport.New(endpoint, httpClient, logger), logger)
}

// NewWithSender creates a client on top of an arbitrary Sender.
func NewWithSender(tr Sender, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{tr: tr, logger: logger}
}

// Do sends req and decodes the reply into out, which may be nil.
// Mutating requests are serialized per client.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if req.Action() != ActionList {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
	}
	return wrapError(c.tr.Send(ctx, Encode(req), out))
}

// List returns the task collection in store order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var resp listResponse
	if err := c.Do(ctx, List{}, &resp); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := resp.tasks()
	c.logger.Debug("listed tasks", "count", len(tasks))
	return tasks, nil
}

// Add creates a task. The reply body is not trusted.
func (c *Client) Add(ctx context.Context, name string) error {
	if err := c.Do(ctx, Add{Task: name}, nil); err != nil {
		return fmt.Errorf("add task %q: %w", name, err)
	}
	return nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, name string) error {
	if err := c.Do(ctx, Delete{Task: name}, nil); err != nil {
		return fmt.Errorf("delete task %q: %w", name, err)
	}
	return nil
}

// SetComplete sets the completion state of a task.
func (c *Client) SetComplete(ctx context.Context, name string, complete bool) error {
	if err := c.Do(ctx, Update{Task: name, Complete: complete}, nil); err != nil {
		return fmt.Errorf("update task %q: %w", name, err)
	}
	return nil
}

// wrapError translates deadline errors into ErrTimeout.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
