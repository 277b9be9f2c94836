package ports

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
)

// Contract for an address autocomplete source.
type SuggestionProvider interface {
	// Report whether the provider finished initializing and can serve requests.
	Ready() bool
	// Return suggestions for a partial address.
	Predict(ctx context.Context, input string) ([]domain.Suggestion, error)
}
