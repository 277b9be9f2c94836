package domain

// A single address suggestion: display text plus the provider's opaque id.
type Suggestion struct {
	Text    string `json:"name"`
	PlaceID string `json:"placeId"`
}
