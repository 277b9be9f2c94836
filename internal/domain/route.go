package domain

// Fallback for display scalars the backend did not supply.
const NotAvailable = "N/A"

// DirectionType is the maneuver category of a single turn instruction.
type DirectionType string

const (
	Destination DirectionType = "destination"
	TurnRight   DirectionType = "turn_right"
	TurnLeft    DirectionType = "turn_left"
	SharpRight  DirectionType = "sharp_right"
	SharpLeft   DirectionType = "sharp_left"
	UTurnRight  DirectionType = "uturn_right"
	UTurnLeft   DirectionType = "uturn_left"
	ExitRight   DirectionType = "exit_right"
	ExitLeft    DirectionType = "exit_left"
	MergeRight  DirectionType = "merge_right"
	MergeLeft   DirectionType = "merge_left"
	Roundabout  DirectionType = "roundabout"
	Straight    DirectionType = "straight"
)

// Represents the normalized result of a route optimization.
// Every field carries a defined fallback, lists and maps are never nil.
type RouteResult struct {
	ETA              ETA              `json:"eta"`
	Instructions     []Instruction    `json:"instructions"`
	Summary          RouteSummary     `json:"routeSummary"`
	Weather          WeatherImpact    `json:"weatherImpact"`
	Traffic          map[string]any   `json:"trafficConditions"`
	FuelStations     []map[string]any `json:"fuelStations"`
	RecentDeliveries []map[string]any `json:"recentDeliveries"`
	AvailableTrucks  []map[string]any `json:"availableTrucks"`
	Analysis         string           `json:"aiAnalysis"`
	Sources          Provenance       `json:"dataSources"`
}

type ETA struct {
	Duration             string  `json:"duration"`
	Distance             string  `json:"distance"`
	RecommendedArrival   *string `json:"recommendedArrival"`
	RecommendedDeparture *string `json:"recommendedDeparture"`
}

// A single turn-by-turn step.
type Instruction struct {
	ID        int           `json:"id"`
	Text      string        `json:"text"`
	Distance  string        `json:"distance"`
	Direction DirectionType `json:"direction_type"`
	Compass   *string       `json:"compass_direction"`
}

type RouteSummary struct {
	From                   string   `json:"from"`
	To                     string   `json:"to"`
	PrimaryRoute           string   `json:"primaryRoute"`
	RouteType              string   `json:"routeType"`
	BestDepartureTime      string   `json:"bestDepartureTime"`
	RecommendedArrivalTime string   `json:"recommendedArrivalTime"`
	WeatherImpact          string   `json:"weatherImpact"`
	FuelStops              string   `json:"fuelStops"`
	EstimatedFuelCost      string   `json:"estimatedFuelCost"`
	OptimizationFactors    []string `json:"optimizationFactors"`
}

type WeatherImpact struct {
	From              map[string]any `json:"fromLocation"`
	To                map[string]any `json:"toLocation"`
	RouteImpact       string         `json:"routeImpact"`
	DrivingConditions string         `json:"drivingConditions"`
}

// Provenance reports how much of each source contributed to a result.
// Raw keeps the backend record verbatim, including keys not modelled here.
type Provenance struct {
	StationsCount   int            `json:"stations_count"`
	DeliveriesCount int            `json:"deliveries_count"`
	TrucksCount     int            `json:"trucks_count"`
	WeatherData     string         `json:"weather_data"`
	AIAnalysis      string         `json:"ai_analysis"`
	Raw             map[string]any `json:"raw"`
}

// Optional scheduling inputs for a route optimization.
type TimeData struct {
	TimeMode      string
	DepartureTime string
	ArrivalTime   string
	DeliveryDate  string
	VehicleType   string
	Notes         string
}

const (
	TimeModeDeparture = "departure"
	TimeModeArrival   = "arrival"

	DefaultVehicleType = "fuel_delivery_truck"
)

type RouteRequest struct {
	From  string
	To    string
	Model string
	// AI optimization is on unless explicitly disabled.
	DisableAI bool
	Time      *TimeData
}

type TomTomRouteRequest struct {
	OriginLat  float64 `json:"origin_lat"`
	OriginLon  float64 `json:"origin_lon"`
	DestLat    float64 `json:"dest_lat"`
	DestLon    float64 `json:"dest_lon"`
	TravelMode string  `json:"travel_mode,omitempty"`
	RouteType  string  `json:"route_type,omitempty"`
}

type ReachableRangeRequest struct {
	OriginLat   float64 `json:"origin_lat"`
	OriginLon   float64 `json:"origin_lon"`
	BudgetValue float64 `json:"budget_value"`
	BudgetType  string  `json:"budget_type,omitempty"`
}

// Raw TomTom routing result for a coordinate pair.
type TomTomRoute struct {
	Origin      []float64      `json:"origin"`
	Destination []float64      `json:"destination"`
	RouteData   map[string]any `json:"route_data"`
}

// Area reachable from an origin within a distance, time, fuel or energy budget.
type ReachableRange struct {
	Origin      []float64      `json:"origin"`
	BudgetType  string         `json:"budget_type"`
	BudgetValue float64        `json:"budget_value"`
	RangeData   map[string]any `json:"range_data"`
}
