package transform

import (
	"encoding/json"
	"fuel-dispatch-dashboard/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const torontoMontreal = `{
  "route_summary": {
    "from": "Toronto, ON",
    "to": "Montreal, QC",
    "total_distance": "541 km",
    "estimated_duration": "5h 30m",
    "best_departure_time": "06:00",
    "optimization_factors": ["weather", "traffic"]
  },
  "directions": [
    {"instruction": "Head east on Front St"},
    {"instruction": "Turn right onto Highway 1 East", "distance": "2 km"},
    {"instruction": "Take exit 42 for Industrial Boulevard", "compass_direction": "NE"},
    {"text": "Destination will be on your right", "direction_type": "destination"}
  ],
  "weather_impact": {"from_location": {"city": "Toronto", "temp_c": 4}},
  "ai_analysis": "Clear roads expected."
}`

func TestRouteTorontoMontreal(t *testing.T) {
	res := Route([]byte(torontoMontreal))

	assert.Equal(t, "541 km", res.ETA.Distance)
	assert.Equal(t, "5h 30m", res.ETA.Duration)
	require.NotNil(t, res.ETA.RecommendedDeparture)
	assert.Equal(t, "06:00", *res.ETA.RecommendedDeparture)
	assert.Nil(t, res.ETA.RecommendedArrival)

	require.Len(t, res.Instructions, 4)
	for i, in := range res.Instructions {
		assert.Equal(t, i+1, in.ID)
	}
	assert.Equal(t, domain.Straight, res.Instructions[0].Direction)
	assert.Equal(t, domain.TurnRight, res.Instructions[1].Direction)
	assert.Equal(t, "2 km", res.Instructions[1].Distance)
	assert.Equal(t, domain.ExitRight, res.Instructions[2].Direction)
	require.NotNil(t, res.Instructions[2].Compass)
	assert.Equal(t, "NE", *res.Instructions[2].Compass)
	assert.Equal(t, "Destination will be on your right", res.Instructions[3].Text)

	assert.Equal(t, "Toronto, ON", res.Summary.From)
	assert.Equal(t, "N/A", res.Summary.PrimaryRoute)
	assert.Equal(t, "N/A", res.Summary.RecommendedArrivalTime)
	assert.Equal(t, []string{"weather", "traffic"}, res.Summary.OptimizationFactors)
	assert.Equal(t, "Toronto", res.Weather.From["city"])
	assert.Empty(t, res.Weather.To)
	assert.Equal(t, "Clear roads expected.", res.Analysis)
}

func TestRouteSparsePayload(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, ``, `not json`, `{"route_summary": "oops", "directions": {}}`} {
		res := Route([]byte(raw))

		assert.Equal(t, "N/A", res.ETA.Distance, raw)
		assert.Equal(t, "N/A", res.Summary.From, raw)
		assert.Equal(t, "", res.Analysis, raw)
		assert.NotNil(t, res.Instructions, raw)
		assert.NotNil(t, res.Summary.OptimizationFactors, raw)
		assert.NotNil(t, res.Traffic, raw)
		assert.NotNil(t, res.FuelStations, raw)
		assert.NotNil(t, res.Sources.Raw, raw)

		// No list or object may encode as null.
		b, err := json.Marshal(res)
		require.NoError(t, err)
		assert.NotContains(t, string(b), `":null,"fuel`, raw)
		assert.NotContains(t, string(b), `"instructions":null`, raw)
		assert.NotContains(t, string(b), `"trafficConditions":null`, raw)
	}
}

func TestInstructionFallbacks(t *testing.T) {
	res := Route([]byte(`{"directions": [
		{"step_id": 7, "instruction": "Turn left onto Bay St", "bearing": 270},
		{"step": 9},
		{"step_id": 0, "text": "Merge onto QEW", "direction_type": ""}
	]}`))

	require.Len(t, res.Instructions, 3)

	assert.Equal(t, 7, res.Instructions[0].ID)
	assert.Equal(t, domain.TurnLeft, res.Instructions[0].Direction)
	require.NotNil(t, res.Instructions[0].Compass)
	assert.Equal(t, "270", *res.Instructions[0].Compass)

	assert.Equal(t, 9, res.Instructions[1].ID)
	assert.Equal(t, "Continue on route", res.Instructions[1].Text)
	assert.Equal(t, "N/A", res.Instructions[1].Distance)
	assert.Nil(t, res.Instructions[1].Compass)

	assert.Equal(t, 3, res.Instructions[2].ID, "zero step id falls back to position")
	assert.Equal(t, domain.MergeRight, res.Instructions[2].Direction)
}

func TestDispatchPassesThroughExtraFields(t *testing.T) {
	res := Dispatch([]byte(`{
		"truck": {"truck_id": "truck-001", "code": "T-100", "plate": "ABC 123", "compartments": [{"id": 1}]},
		"depot_location": "Toronto",
		"route_stops": [{"station": "Station A", "distance": "12 km", "fuel_delivery": "8000 L"}],
		"dispatch_summary": {"total_stations": "3", "total_distance": "120 km"},
		"stations_available": [{"station_id": "station-001"}, "junk"],
		"ai_analysis": "raw output",
		"carbon_estimate": {"kg": 42},
		"warnings": ["late departure"]
	}`))

	assert.Equal(t, "T-100", res.Truck.Code)
	assert.Equal(t, "ABC 123", res.Truck.Plate)
	assert.Equal(t, "N/A", res.Truck.Status)
	assert.Len(t, res.Truck.Compartments, 1)

	require.Len(t, res.Stops, 1)
	assert.Equal(t, "Station A", res.Stops[0].Station)
	assert.Equal(t, "N/A", res.Stops[0].ETA)

	assert.Equal(t, "3", res.Summary.TotalStations)
	assert.Equal(t, "N/A", res.Summary.ReturnTime)
	assert.Len(t, res.StationsAvailable, 1)
	assert.Equal(t, "Toronto", res.DepotLocation)
	assert.NotNil(t, res.Optimization)

	assert.Len(t, res.Extra, 2)
	assert.Equal(t, map[string]any{"kg": float64(42)}, res.Extra["carbon_estimate"])
	assert.Equal(t, []any{"late departure"}, res.Extra["warnings"])
}

func TestDispatchSparse(t *testing.T) {
	res := Dispatch(nil)

	assert.Equal(t, "N/A", res.DepotLocation)
	assert.Equal(t, "", res.Analysis)
	assert.NotNil(t, res.Stops)
	assert.NotNil(t, res.Truck.Compartments)
	assert.NotNil(t, res.Extra)
	assert.Empty(t, res.Extra)
}

func TestRecommendationsAndFilters(t *testing.T) {
	recs := Recommendations([]byte(`{
		"recommendations": [{"truck_code": "T-100", "priority": "High", "station_count": "3"}],
		"summary": "Dispatch T-100 first",
		"total_trucks": 4,
		"total_stations": 12
	}`))
	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "T-100", recs.Recommendations[0].TruckCode)
	assert.Equal(t, "N/A", recs.Recommendations[0].TotalDistance)
	assert.Equal(t, "Dispatch T-100 first", recs.Summary)
	assert.Equal(t, 4, recs.TotalTrucks)

	empty := Recommendations([]byte(`{}`))
	assert.NotNil(t, empty.Recommendations)

	f := Filters([]byte(`{"regions": ["Ontario", "Quebec"], "cities": ["Toronto", null, ""]}`))
	assert.Equal(t, []string{"Ontario", "Quebec"}, f.Regions)
	assert.Equal(t, []string{"Toronto"}, f.Cities)
}

func TestReferenceData(t *testing.T) {
	trucks := Trucks([]byte(`{"trucks": [{"truck_id": "truck-001", "code": "T-100", "plate_number": "ABC", "capacity_liters": 30000, "status": "active"}], "count": 1}`))
	require.Len(t, trucks.Trucks, 1)
	assert.Equal(t, 1, trucks.Count)
	assert.Equal(t, "ABC", trucks.Trucks[0].PlateNumber)
	assert.Equal(t, 30000.0, trucks.Trucks[0].CapacityLiters)
	assert.True(t, trucks.Trucks[0].Active())
	assert.Equal(t, "N/A", trucks.Trucks[0].FuelType)

	stations := Stations([]byte(`[{"station_id": "station-001", "capacity_liters": 50000, "current_level_liters": 10000}]`))
	require.Len(t, stations.Stations, 1)
	assert.Equal(t, 1, stations.Count)
	assert.Equal(t, 20.0, stations.Stations[0].FuelLevelPercent)
	assert.Equal(t, domain.StockLow, stations.Stations[0].Stock())

	st := Station([]byte(`{"station_id": "station-002", "fuel_level": 85}`))
	assert.Equal(t, 85.0, st.FuelLevelPercent)

	trips := Trips([]byte(`{"trips": [{"trip_id": 17, "status": "completed", "lat": 43.65}], "count": 1, "total_available": 240}`))
	require.Len(t, trips.Trips, 1)
	assert.Equal(t, "17", trips.Trips[0].ID)
	assert.True(t, trips.Trips[0].Successful())
	require.NotNil(t, trips.Trips[0].Lat)
	assert.Nil(t, trips.Trips[0].Lon)
	assert.Equal(t, 240, trips.TotalAvailable)

	assert.NotNil(t, Trucks(nil).Trucks)
	assert.NotNil(t, Trips([]byte(`{"trips": null}`)).Trips)
}

func TestAccountWeatherHealth(t *testing.T) {
	tok := Token([]byte(`{"access_token": "abc"}`))
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, "", Token([]byte(`{}`)).AccessToken)

	u := User([]byte(`{"username": "dispatcher", "email": "d@example.com"}`))
	assert.Equal(t, "dispatcher", u.Username)
	assert.Equal(t, "N/A", u.ID)

	w := Weather([]byte(`{"city": "Toronto", "weather": {"temp_c": -3.5, "condition": "Snow"}}`))
	assert.Equal(t, "Toronto", w.City)
	assert.Equal(t, -3.5, w.TempC)
	assert.Equal(t, "Snow", w.Condition)

	h := Health([]byte(`{"status": "healthy", "services": {"ai_optimization": "available"}}`))
	assert.True(t, h.Healthy())
	assert.Equal(t, "available", h.Services["ai_optimization"])
	assert.NotNil(t, Health(nil).Services)
}

func TestPredictions(t *testing.T) {
	got := Predictions([]byte(`{"suggestions": [
		{"placePrediction": {"placeId": "p1", "text": {"text": "Toronto, ON, Canada"}}},
		{"queryPrediction": {"text": {"text": "toronto pizza"}}},
		{"placePrediction": {"placeId": "p2", "text": {"text": "Toronto Pearson Airport"}}}
	]}`))

	assert.Equal(t, []domain.Suggestion{
		{Text: "Toronto, ON, Canada", PlaceID: "p1"},
		{Text: "Toronto Pearson Airport", PlaceID: "p2"},
	}, got)
	assert.NotNil(t, Predictions([]byte(`{}`)))
}
