package session

import (
	"context"
	"fmt"
	"net/http"

	"tasksync/internal/config"
)

// ProviderFor returns the provider selected by cfg.Auth.
func ProviderFor(cfg *config.Config) (Provider, error) {
	switch cfg.Auth {
	case config.AuthOAuth, "":
		p := NewOAuthProvider(cfg.OAuthClientPath(), cfg.TokenPath())
		p.SetLogger(cfg.Logger)
		return p, nil
	case config.AuthNone:
		return NoAuthProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: auth mode %s", config.ErrInvalid, cfg.Auth)
	}
}

// NoAuthProvider is always signed in and attaches no credentials.
// It suits stores that sit behind their own network-level protection.
type NoAuthProvider struct{}

// anonymous is the session NoAuthProvider hands out.
var anonymous = &Session{Subject: "anonymous"}

func (NoAuthProvider) Current(ctx context.Context) (*Session, error) {
	return anonymous, nil
}

func (NoAuthProvider) SignIn(ctx context.Context, prompt func(url string)) (*Session, error) {
	return anonymous, nil
}

func (NoAuthProvider) SignOut(ctx context.Context) error {
	return nil
}

func (NoAuthProvider) HTTPClient(ctx context.Context, s *Session) *http.Client {
	return &http.Client{}
}
