package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/transform"
	"net/url"
)

var ErrNoAccessToken = errors.New("login response carried no access token")

type Auth struct {
	backend ports.Backend
	tokens  ports.TokenStore
}

func NewAuth(backend ports.Backend, tokens ports.TokenStore) *Auth {
	return &Auth{backend: backend, tokens: tokens}
}

// Login exchanges credentials for a token and stores it.
func (s *Auth) Login(ctx context.Context, c domain.Credentials) (domain.Token, error) {
	raw, err := s.backend.PostForm(ctx, "/auth/token", url.Values{
		"username": {c.Username},
		"password": {c.Password},
	})
	if err != nil {
		return domain.Token{}, err
	}

	tok := transform.Token(raw)
	if tok.AccessToken == "" {
		return domain.Token{}, ErrNoAccessToken
	}
	if err := s.tokens.SetToken(tok.AccessToken); err != nil {
		return domain.Token{}, fmt.Errorf("login: store token: %w", err)
	}
	return tok, nil
}

func (s *Auth) Register(ctx context.Context, r domain.Registration) (domain.User, error) {
	raw, err := s.backend.PostJSON(ctx, "/auth/register", r)
	if err != nil {
		return domain.User{}, err
	}
	return transform.User(raw), nil
}

func (s *Auth) Me(ctx context.Context) (domain.User, error) {
	raw, err := s.backend.Get(ctx, "/auth/me", nil)
	if err != nil {
		return domain.User{}, err
	}
	return transform.User(raw), nil
}

// Logout notifies the backend and clears the local token even when the
// backend call fails.
func (s *Auth) Logout(ctx context.Context) error {
	_, callErr := s.backend.PostJSON(ctx, "/auth/logout", nil)
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("logout: clear token: %w", err)
	}
	return callErr
}
