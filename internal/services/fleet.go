package services

import (
	"context"
	"fuel-dispatch-dashboard/internal/domain"
	"fuel-dispatch-dashboard/internal/ports"
	"fuel-dispatch-dashboard/internal/transform"
	"net/url"
	"strconv"
)

type Trucks struct {
	backend ports.Backend
}

func NewTrucks(backend ports.Backend) *Trucks {
	return &Trucks{backend: backend}
}

func (s *Trucks) List(ctx context.Context) (domain.TruckList, error) {
	raw, err := s.backend.Get(ctx, "/trucks", nil)
	if err != nil {
		return domain.TruckList{}, err
	}
	return transform.Trucks(raw), nil
}

func (s *Trucks) Get(ctx context.Context, id string) (domain.Truck, error) {
	raw, err := s.backend.Get(ctx, "/trucks/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Truck{}, err
	}
	return transform.Truck(raw), nil
}

func (s *Trucks) Create(ctx context.Context, t domain.NewTruck) (domain.Truck, error) {
	raw, err := s.backend.PostJSON(ctx, "/trucks", t)
	if err != nil {
		return domain.Truck{}, err
	}
	return transform.Truck(raw), nil
}

type Stations struct {
	backend ports.Backend
}

func NewStations(backend ports.Backend) *Stations {
	return &Stations{backend: backend}
}

func (s *Stations) List(ctx context.Context) (domain.StationList, error) {
	raw, err := s.backend.Get(ctx, "/stations", nil)
	if err != nil {
		return domain.StationList{}, err
	}
	return transform.Stations(raw), nil
}

func (s *Stations) Get(ctx context.Context, id string) (domain.Station, error) {
	raw, err := s.backend.Get(ctx, "/stations/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Station{}, err
	}
	return transform.Station(raw), nil
}

type Trips struct {
	backend  ports.Backend
	defaults Defaults
}

func NewTrips(backend ports.Backend, defaults Defaults) *Trips {
	return &Trips{backend: backend, defaults: defaults}
}

// NormalizeFilter fills in the default limit.
func (s *Trips) NormalizeFilter(f domain.TripFilter) domain.TripFilter {
	f.Limit = s.defaults.tripsLimit(f.Limit)
	return f
}

func (s *Trips) List(ctx context.Context, f domain.TripFilter) (domain.TripList, error) {
	f = s.NormalizeFilter(f)
	q := url.Values{
		"limit":           {strconv.Itoa(f.Limit)},
		"successful_only": {strconv.FormatBool(f.SuccessfulOnly)},
	}

	raw, err := s.backend.Get(ctx, "/trips", q)
	if err != nil {
		return domain.TripList{}, err
	}
	return transform.Trips(raw), nil
}

func (s *Trips) Get(ctx context.Context, id string) (domain.Trip, error) {
	raw, err := s.backend.Get(ctx, "/trips/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Trip{}, err
	}
	return transform.Trip(raw), nil
}
