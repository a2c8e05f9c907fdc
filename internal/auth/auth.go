package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/model"
)

var (
	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("authorization header is required")
	// ErrInvalidToken is returned when the token is malformed or forged.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the authenticated caller. UserID scopes every task operation.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Authenticator resolves the caller identity from the raw Authorization
// header value.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*Identity, error)
}

// Fixed authenticates every request as the same identity, ignoring any
// credentials. It is meant for local development.
type Fixed struct {
	identity Identity
}

// NewFixed creates a Fixed authenticator for userID.
func NewFixed(userID, email string) *Fixed {
	return &Fixed{identity: Identity{UserID: userID, Email: email}}
}

// Authenticate returns the fixed identity.
func (f *Fixed) Authenticate(context.Context, string) (*Identity, error) {
	id := f.identity
	return &id, nil
}

// SecretLookup fetches a named secret, typically from the system keyring.
type SecretLookup func(key string) (string, error)

// ResolveSecret returns the configured JWT secret, falling back to lookup
// under credential.KeyJWTSecret when the config leaves it empty.
func ResolveSecret(cfg model.AuthConfig, lookup SecretLookup) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	if lookup == nil {
		return "", fmt.Errorf("no jwt secret configured")
	}

	secret, err := lookup(credential.KeyJWTSecret)
	if err != nil {
		return "", fmt.Errorf("looking up jwt secret: %w", err)
	}
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	return secret, nil
}

// New builds the Authenticator selected by cfg.Mode.
func New(cfg model.AuthConfig, lookup SecretLookup) (Authenticator, error) {
	switch cfg.Mode {
	case "", model.AuthModeFixed:
		return NewFixed(cfg.UserID, cfg.Email), nil
	case model.AuthModeJWT:
		secret, err := ResolveSecret(cfg, lookup)
		if err != nil {
			return nil, err
		}
		return NewJWTManager(secret, time.Duration(cfg.TokenTTLMin)*time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: use Bearer <token>", ErrInvalidToken)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
