package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

// ErrNoOAuthClient is returned when oauth_client.json is missing.
var ErrNoOAuthClient = errors.New("oauth_client.json not found")

// clientFile is the generic oauth_client.json layout (any OAuth2/OIDC
// provider, e.g. a Cognito user pool app client).
type clientFile struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`

	// Google console downloads nest the client under one of these.
	Installed json.RawMessage `json:"installed"`
	Web       json.RawMessage `json:"web"`
}

// defaultScopes are requested when the client file names none.
var defaultScopes = []string{"openid", "email"}

// LoadClientConfig reads OAuth client credentials. Google-format files are
// delegated to google.ConfigFromJSON.
func LoadClientConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoOAuthClient
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	var f clientFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	scopes := f.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	if len(f.Installed) > 0 || len(f.Web) > 0 {
		cfg, err := google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
		}
		return cfg, nil
	}

	if f.ClientID == "" || f.AuthURL == "" || f.TokenURL == "" {
		return nil, fmt.Errorf("invalid oauth_client.json: client_id, auth_url and token_url are required")
	}
	return &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.AuthURL,
			TokenURL: f.TokenURL,
		},
		Scopes: scopes,
	}, nil
}

// OAuthProvider signs in with the authorization code flow + PKCE and keeps
// the token in a file.
type OAuthProvider struct {
	clientPath string
	tokenPath  string
	logger     *slog.Logger

	mu sync.Mutex
}

// NewOAuthProvider creates a provider using the given credential and token files.
func NewOAuthProvider(clientPath, tokenPath string) *OAuthProvider {
	return &OAuthProvider{
		clientPath: clientPath,
		tokenPath:  tokenPath,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets where token write-back failures are reported.
func (p *OAuthProvider) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Current returns the stored session if its token is usable.
// Usable means: parseable, has a refresh token, and can produce a valid
// access token (refreshing if needed).
func (p *OAuthProvider) Current(ctx context.Context) (*Session, error) {
	token, err := p.loadToken()
	if err != nil {
		return nil, ErrNoSession
	}
	if token.RefreshToken == "" {
		return nil, ErrNoSession
	}

	oauthConfig, err := LoadClientConfig(p.clientPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	fresh, err := oauthConfig.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	if fresh.AccessToken != token.AccessToken {
		if err := p.saveToken(fresh); err != nil {
			return nil, fmt.Errorf("failed to save token: %w", err)
		}
	}
	return &Session{Subject: subjectFromToken(fresh), Token: fresh}, nil
}

// SignIn runs the browser flow against a loopback callback server.
func (p *OAuthProvider) SignIn(ctx context.Context, prompt func(url string)) (*Session, error) {
	oauthConfig, err := LoadClientConfig(p.clientPath)
	if err != nil {
		return nil, err
	}

	// Find available port
	port, listener, err := findAvailablePort()
	if err != nil {
		return nil, fmt.Errorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := oauth2.GenerateVerifier()

	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	if prompt != nil {
		prompt(authURL)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("state mismatch in callback"))
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(oauthCallbackTimeout):
		return nil, fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return nil, fmt.Errorf("cancelled: %w", ctx.Err())
	}

	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := p.saveToken(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return &Session{Subject: subjectFromToken(token), Token: token}, nil
}

// SignOut removes the token file.
func (p *OAuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := os.Remove(p.tokenPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// HTTPClient returns a client that adds the bearer token and persists refreshes.
func (p *OAuthProvider) HTTPClient(ctx context.Context, s *Session) *http.Client {
	oauthConfig, err := LoadClientConfig(p.clientPath)
	if err != nil {
		// Without client credentials the token cannot be refreshed; use it as is.
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(s.Token))
	}
	src := &savingTokenSource{
		base:     oauthConfig.TokenSource(ctx, s.Token),
		provider: p,
		last:     s.Token.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(s.Token, src))
}

// storedToken is the token.json layout. The id_token is kept alongside the
// oauth2 fields so the subject survives a restart.
type storedToken struct {
	oauth2.Token
	IDToken string `json:"id_token,omitempty"`
}

func (p *OAuthProvider) loadToken() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := os.ReadFile(p.tokenPath)
	if err != nil {
		return nil, err
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	token := &st.Token
	if st.IDToken != "" {
		token = token.WithExtra(map[string]any{"id_token": st.IDToken})
	}
	return token, nil
}

// saveToken saves an OAuth token to a file with mode 0600. Refresh replies
// usually carry no id_token; the stored one is kept in that case.
func (p *OAuthProvider) saveToken(token *oauth2.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := storedToken{Token: *token}
	st.IDToken, _ = token.Extra("id_token").(string)
	if st.IDToken == "" {
		st.IDToken = p.storedIDToken()
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.tokenPath, data, 0600)
}

// storedIDToken returns the id_token in the token file, if any. Callers
// hold p.mu.
func (p *OAuthProvider) storedIDToken() string {
	data, err := os.ReadFile(p.tokenPath)
	if err != nil {
		return ""
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return ""
	}
	return st.IDToken
}

// savingTokenSource writes refreshed tokens back to the token file.
type savingTokenSource struct {
	base     oauth2.TokenSource
	provider *OAuthProvider

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.AccessToken != s.last {
		s.last = t.AccessToken
		if err := s.provider.saveToken(t); err != nil {
			s.provider.logger.Warn("failed to save refreshed token", "error", err)
		}
	}
	return t, nil
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		addr := fmt.Sprintf("localhost:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// subjectClaims are checked in order for a display name.
var subjectClaims = []string{"email", "cognito:username", "preferred_username", "sub"}

// subjectFromToken reads a display name from the id_token claims.
// The token is not verified; the value is only shown to the user.
func subjectFromToken(t *oauth2.Token) string {
	raw, _ := t.Extra("id_token").(string)
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	for _, name := range subjectClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
