package ports

// Port: where the bearer token lives between requests.
type TokenStore interface {
	// Return the stored token, or "" when none is present.
	Token() string
	SetToken(token string) error
	Clear() error
}
