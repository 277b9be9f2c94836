package services

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/transform"
)

type Weather struct {
	backend ports.Backend
}

func NewWeather(backend ports.Backend) *Weather {
	return &Weather{backend: backend}
}

func (s *Weather) Get(ctx context.Context, city string) (domain.Weather, error) {
	raw, err := s.backend.PostJSON(ctx, "/weather", domain.WeatherRequest{City: city})
	if err != nil {
		return domain.Weather{}, err
	}
	return transform.Weather(raw), nil
}

type Health struct {
	backend ports.Backend
}

func NewHealth(backend ports.Backend) *Health {
	return &Health{backend: backend}
}

func (s *Health) Check(ctx context.Context) (domain.Health, error) {
	raw, err := s.backend.Get(ctx, "/health", nil)
	if err != nil {
		return domain.Health{}, err
	}
	return transform.Health(raw), nil
}
