package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	current    *Session
	currentErr error
	signInErr  error
	signOutErr error
	signedOut  int
	promptURL  string
}

func (p *fakeProvider) Current(ctx context.Context) (*Session, error) {
	if p.currentErr != nil {
		return nil, p.currentErr
	}
	if p.current == nil {
		return nil, ErrNoSession
	}
	return p.current, nil
}

func (p *fakeProvider) SignIn(ctx context.Context, prompt func(url string)) (*Session, error) {
	if prompt != nil && p.promptURL != "" {
		prompt(p.promptURL)
	}
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	p.current = &Session{Subject: "mike@example.com"}
	return p.current, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.signedOut++
	p.current = nil
	return p.signOutErr
}

func (p *fakeProvider) HTTPClient(ctx context.Context, s *Session) *http.Client {
	return &http.Client{}
}

func TestGate_StartsUnauthenticated(t *testing.T) {
	g := NewGate(&fakeProvider{})
	assert.Equal(t, Unauthenticated, g.State())
	assert.Nil(t, g.Session())

	_, err := g.HTTPClient(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGate_RestoreWithStoredSession(t *testing.T) {
	p := &fakeProvider{current: &Session{Subject: "mike"}}
	g := NewGate(p)

	state, err := g.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)
	assert.Equal(t, "mike", g.Session().Subject)
}

func TestGate_RestoreWithoutSession(t *testing.T) {
	g := NewGate(&fakeProvider{})

	state, err := g.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, state)
}

func TestGate_RestoreProviderFailure(t *testing.T) {
	boom := errors.New("oauth_client.json unreadable")
	g := NewGate(&fakeProvider{currentErr: boom})

	state, err := g.Restore(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Unauthenticated, state)
}

func TestGate_SignInAndOut(t *testing.T) {
	p := &fakeProvider{promptURL: "https://auth.example.com/authorize"}
	g := NewGate(p)

	var prompted string
	require.NoError(t, g.SignIn(context.Background(), func(url string) { prompted = url }))
	assert.Equal(t, "https://auth.example.com/authorize", prompted)
	assert.Equal(t, Authenticated, g.State())

	client, err := g.HTTPClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, client)

	require.NoError(t, g.SignOut(context.Background()))
	assert.Equal(t, Unauthenticated, g.State())
	assert.Equal(t, 1, p.signedOut)
}

func TestGate_SignInFailureStaysUnauthenticated(t *testing.T) {
	g := NewGate(&fakeProvider{signInErr: errors.New("callback timed out")})

	assert.Error(t, g.SignIn(context.Background(), nil))
	assert.Equal(t, Unauthenticated, g.State())
}

func TestGate_SignOutIsUnconditional(t *testing.T) {
	boom := errors.New("permission denied")
	p := &fakeProvider{current: &Session{}, signOutErr: boom}
	g := NewGate(p)
	_, err := g.Restore(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, g.SignOut(context.Background()), boom)
	assert.Equal(t, Unauthenticated, g.State())
}

func TestRender_SelectsSurface(t *testing.T) {
	p := &fakeProvider{}
	g := NewGate(p)

	login := func() string { return "login" }
	tasks := func(s *Session) string { return "tasks for " + s.Subject }

	assert.Equal(t, "login", Render(g, login, tasks))

	require.NoError(t, g.SignIn(context.Background(), nil))
	assert.Equal(t, "tasks for mike@example.com", Render(g, login, tasks))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unknown", State(7).String())
}

func TestNoAuthProvider(t *testing.T) {
	g := NewGate(NoAuthProvider{})

	state, err := g.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)

	require.NoError(t, g.SignOut(context.Background()))
	assert.Equal(t, Unauthenticated, g.State())

	require.NoError(t, g.SignIn(context.Background(), nil))
	assert.Equal(t, Authenticated, g.State())
}
