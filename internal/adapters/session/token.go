package session

import (
	"fuel-dispatch-dashboard/internal/ports"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Usable reports whether token is present and, when it is a JWT carrying an
// exp claim, not yet expired. The signature is not checked; the backend does that.
func Usable(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Opaque tokens are the backend's business.
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}

// Authenticated reports whether the store currently holds a usable token.
func Authenticated(store ports.TokenStore, now time.Time) bool {
	if store == nil {
		return false
	}
	return Usable(store.Token(), now)
}
