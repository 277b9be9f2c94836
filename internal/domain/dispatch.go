package domain

// Represents the normalized result of a dispatch optimization.
// Extra carries every top-level backend field not modelled below.
type DispatchResult struct {
	Truck             DispatchTruck    `json:"truck"`
	Stops             []DispatchStop   `json:"route_stops"`
	Summary           DispatchSummary  `json:"dispatch_summary"`
	Optimization      map[string]any   `json:"optimization_summary"`
	StationsAvailable []map[string]any `json:"stations_available"`
	DepotLocation     string           `json:"depot_location"`
	Analysis          string           `json:"ai_analysis"`
	Sources           Provenance       `json:"data_sources"`
	Extra             map[string]any   `json:"extra"`
}

type DispatchTruck struct {
	ID           string           `json:"truck_id"`
	Code         string           `json:"code"`
	Plate        string           `json:"plate"`
	Status       string           `json:"status"`
	Compartments []map[string]any `json:"compartments"`
}

// A single delivery stop of a dispatch, in visiting order.
// Values are display strings as parsed from the optimizer output.
type DispatchStop struct {
	Station      string `json:"station"`
	Distance     string `json:"distance"`
	FuelDelivery string `json:"fuel_delivery"`
	ETA          string `json:"eta"`
	Reason       string `json:"reason"`
}

type DispatchSummary struct {
	TotalStations     string `json:"total_stations"`
	TotalDistance     string `json:"total_distance"`
	EstimatedDuration string `json:"estimated_duration"`
	TotalFuel         string `json:"total_fuel"`
	DepartureTime     string `json:"departure_time"`
	ReturnTime        string `json:"return_time"`
}

type DispatchRequest struct {
	TruckID       string `json:"truck_id"`
	DepotLocation string `json:"depot_location"`
	Model         string `json:"llm_model"`
}

// RecommendationsRequest doubles as the filter set of the recommendations
// query, so its JSON encoding is part of the cache identity.
type RecommendationsRequest struct {
	DepotLocation      string `json:"depot_location"`
	Model              string `json:"llm_model"`
	MaxRecommendations int    `json:"max_recommendations"`
	Region             string `json:"filter_region,omitempty"`
	City               string `json:"filter_city,omitempty"`
}

type Recommendation struct {
	TruckCode         string         `json:"truck_code"`
	Priority          string         `json:"priority"`
	Rationale         string         `json:"rationale"`
	StationCount      string         `json:"station_count"`
	TotalDistance     string         `json:"total_distance"`
	TotalFuelDelivery string         `json:"total_fuel_delivery"`
	EstimatedDuration string         `json:"estimated_duration"`
	RouteSummary      string         `json:"route_summary"`
	Raw               map[string]any `json:"raw"`
}

type Recommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	TotalTrucks     int              `json:"total_trucks"`
	TotalStations   int              `json:"total_stations"`
	Analysis        string           `json:"ai_analysis"`
}

// Available region/city facets for recommendations.
type DispatchFilters struct {
	Regions []string `json:"regions"`
	Cities  []string `json:"cities"`
}
