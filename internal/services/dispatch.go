package services

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/transform"
)

type Dispatch struct {
	backend  ports.Backend
	defaults Defaults
}

func NewDispatch(backend ports.Backend, defaults Defaults) *Dispatch {
	return &Dispatch{backend: backend, defaults: defaults}
}

// Optimize plans a delivery run for one truck. It changes truck and station
// state on the backend and must not be repeated implicitly.
func (s *Dispatch) Optimize(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
	req.DepotLocation = s.defaults.depot(req.DepotLocation)
	req.Model = s.defaults.model(req.Model)

	raw, err := s.backend.PostJSON(ctx, "/dispatch/optimize", req)
	if err != nil {
		return domain.DispatchResult{}, err
	}
	return transform.Dispatch(raw), nil
}

// NormalizeRecommendations applies the defaults that Recommendations would.
// Callers keying a cache on the request use it so equal requests compare equal.
func (s *Dispatch) NormalizeRecommendations(req domain.RecommendationsRequest) domain.RecommendationsRequest {
	req.DepotLocation = s.defaults.depot(req.DepotLocation)
	req.Model = s.defaults.model(req.Model)
	if req.MaxRecommendations <= 0 {
		req.MaxRecommendations = DefaultMaxRecommendations
	}
	return req
}

func (s *Dispatch) Recommendations(ctx context.Context, req domain.RecommendationsRequest) (domain.Recommendations, error) {
	raw, err := s.backend.PostJSON(ctx, "/dispatch/recommendations", s.NormalizeRecommendations(req))
	if err != nil {
		return domain.Recommendations{}, err
	}
	return transform.Recommendations(raw), nil
}

func (s *Dispatch) Filters(ctx context.Context) (domain.DispatchFilters, error) {
	raw, err := s.backend.Get(ctx, "/dispatch/filters", nil)
	if err != nil {
		return domain.DispatchFilters{}, err
	}
	return transform.Filters(raw), nil
}
