// Package session decides whether the task list or the login surface is shown,
// and owns sign-in and sign-out through a pluggable identity provider.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned when no usable session exists.
var ErrNoSession = errors.New("not logged in")

// Session is the state of a signed-in user. Only the provider looks inside.
type Session struct {
	// Subject is a display name for the signed-in user. May be empty.
	Subject string

	// Token holds the credentials, nil for providers without credentials.
	Token *oauth2.Token
}

// State is the render state of the gate.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Provider is the identity provider behind the gate.
type Provider interface {
	// Current returns the stored session, or ErrNoSession.
	Current(ctx context.Context) (*Session, error)

	// SignIn runs the interactive sign-in. prompt receives the URL the
	// user must open, if the flow needs one.
	SignIn(ctx context.Context, prompt func(url string)) (*Session, error)

	// SignOut discards the stored session. Not being signed in is not an error.
	SignOut(ctx context.Context) error

	// HTTPClient returns a client that attaches the session's credentials.
	HTTPClient(ctx context.Context, s *Session) *http.Client
}

// Gate tracks whether a session is active.
type Gate struct {
	provider Provider

	mu      sync.RWMutex
	session *Session
}

// NewGate creates a gate in the Unauthenticated state.
func NewGate(p Provider) *Gate {
	return &Gate{provider: p}
}

// State returns the current render state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Session returns the active session, or nil.
func (g *Gate) Session() *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Restore adopts a stored session if the provider has one.
func (g *Gate) Restore(ctx context.Context) (State, error) {
	s, err := g.provider.Current(ctx)
	if err != nil {
		g.set(nil)
		if errors.Is(err, ErrNoSession) {
			return Unauthenticated, nil
		}
		return Unauthenticated, err
	}
	g.set(s)
	return Authenticated, nil
}

// SignIn runs the provider's sign-in flow and activates the new session.
func (g *Gate) SignIn(ctx context.Context, prompt func(url string)) error {
	s, err := g.provider.SignIn(ctx, prompt)
	if err != nil {
		return err
	}
	g.set(s)
	return nil
}

// SignOut ends the session. The gate is Unauthenticated afterwards even if
// the provider fails; that error is returned for reporting only.
func (g *Gate) SignOut(ctx context.Context) error {
	g.set(nil)
	return g.provider.SignOut(ctx)
}

// HTTPClient returns a credentialed client for the active session.
func (g *Gate) HTTPClient(ctx context.Context) (*http.Client, error) {
	s := g.Session()
	if s == nil {
		return nil, ErrNoSession
	}
	return g.provider.HTTPClient(ctx, s), nil
}

func (g *Gate) set(s *Session) {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
}

// Render returns login() while unauthenticated and authenticated(session)
// otherwise.
func Render[T any](g *Gate, login func() T, authenticated func(*Session) T) T {
	if s := g.Session(); s != nil {
		return authenticated(s)
	}
	return login()
}
