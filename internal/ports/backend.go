package ports

import (
	"context"
	"net/url"
)

// Contract for issuing requests against the dispatch backend.
// Implementations return the raw response body on 2xx and a normalized error otherwise.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	PostJSON(ctx context.Context, path string, body any) ([]byte, error)
	// PostForm sends form-encoded credentials and never attaches a bearer token.
	PostForm(ctx context.Context, path string, form url.Values) ([]byte, error)
}
