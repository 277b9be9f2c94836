package services

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/transform"
)

type optimizeRouteBody struct {
	FromLocation  string `json:"from_location"`
	ToLocation    string `json:"to_location"`
	LLMModel      string `json:"llm_model"`
	UseAI         bool   `json:"use_ai_optimization"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	TimeMode      string `json:"time_mode"`
	DeliveryDate  string `json:"delivery_date,omitempty"`
	VehicleType   string `json:"vehicle_type"`
	Notes         string `json:"notes,omitempty"`
}

type Routes struct {
	backend  ports.Backend
	defaults Defaults
}

func NewRoutes(backend ports.Backend, defaults Defaults) *Routes {
	return &Routes{backend: backend, defaults: defaults}
}

// Optimize asks the backend for an AI-optimized route between two locations.
// The call may take tens of seconds.
func (s *Routes) Optimize(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	raw, err := s.backend.PostJSON(ctx, "/routes/optimize", s.body(req))
	if err != nil {
		return domain.RouteResult{}, err
	}
	return transform.Route(raw), nil
}

func (s *Routes) body(req domain.RouteRequest) optimizeRouteBody {
	b := optimizeRouteBody{
		FromLocation: req.From,
		ToLocation:   req.To,
		LLMModel:     s.defaults.model(req.Model),
		UseAI:        !req.DisableAI,
		TimeMode:     domain.TimeModeDeparture,
		VehicleType:  domain.DefaultVehicleType,
	}

	if t := req.Time; t != nil {
		b.DepartureTime = t.DepartureTime
		b.ArrivalTime = t.ArrivalTime
		b.DeliveryDate = t.DeliveryDate
		b.Notes = t.Notes
		if t.TimeMode != "" {
			b.TimeMode = t.TimeMode
		}
		if t.VehicleType != "" {
			b.VehicleType = t.VehicleType
		}
	}
	return b
}

func (s *Routes) TomTom(ctx context.Context, req domain.TomTomRouteRequest) (domain.TomTomRoute, error) {
	raw, err := s.backend.PostJSON(ctx, "/routes/tomtom", req)
	if err != nil {
		return domain.TomTomRoute{}, err
	}
	return transform.TomTomRoute(raw), nil
}

func (s *Routes) ReachableRange(ctx context.Context, req domain.ReachableRangeRequest) (domain.ReachableRange, error) {
	raw, err := s.backend.PostJSON(ctx, "/routes/reachable-range", req)
	if err != nil {
		return domain.ReachableRange{}, err
	}
	return transform.ReachableRange(raw), nil
}
