package transform

import (
	"fuel-dispatch-dashboard/internal/domain"

	"github.com/tidwall/gjson"
)

const defaultInstruction = "Continue on route"

// Route maps a route optimization payload onto domain.RouteResult. It never
// fails: absent or malformed fields take their fallback.
func Route(raw []byte) domain.RouteResult {
	doc := parse(raw)
	summary := doc.Get("route_summary")
	weather := doc.Get("weather_impact")

	return domain.RouteResult{
		ETA: domain.ETA{
			Duration:             str(summary.Get("estimated_duration"), domain.NotAvailable),
			Distance:             str(summary.Get("total_distance"), domain.NotAvailable),
			RecommendedArrival:   optStr(summary.Get("recommended_arrival_time")),
			RecommendedDeparture: optStr(summary.Get("best_departure_time")),
		},
		Instructions: Instructions(doc.Get("directions")),
		Summary: domain.RouteSummary{
			From:                   str(summary.Get("from"), domain.NotAvailable),
			To:                     str(summary.Get("to"), domain.NotAvailable),
			PrimaryRoute:           str(summary.Get("primary_route"), domain.NotAvailable),
			RouteType:              str(summary.Get("route_type"), domain.NotAvailable),
			BestDepartureTime:      str(summary.Get("best_departure_time"), domain.NotAvailable),
			RecommendedArrivalTime: str(summary.Get("recommended_arrival_time"), domain.NotAvailable),
			WeatherImpact:          str(summary.Get("weather_impact"), domain.NotAvailable),
			FuelStops:              str(summary.Get("fuel_stops"), domain.NotAvailable),
			EstimatedFuelCost:      str(summary.Get("estimated_fuel_cost"), domain.NotAvailable),
			OptimizationFactors:    stringList(summary.Get("optimization_factors")),
		},
		Weather: domain.WeatherImpact{
			From:              object(weather.Get("from_location")),
			To:                object(weather.Get("to_location")),
			RouteImpact:       str(weather.Get("route_impact"), domain.NotAvailable),
			DrivingConditions: str(weather.Get("driving_conditions"), domain.NotAvailable),
		},
		Traffic:          object(doc.Get("traffic_conditions")),
		FuelStations:     objects(doc.Get("fuel_stations")),
		RecentDeliveries: objects(doc.Get("recent_deliveries")),
		AvailableTrucks:  objects(doc.Get("available_trucks")),
		Analysis:         str(doc.Get("ai_analysis"), ""),
		Sources:          provenance(doc.Get("data_sources")),
	}
}

// Instructions maps the backend directions array, numbering steps from 1 when
// the backend supplies no step id.
func Instructions(directions gjson.Result) []domain.Instruction {
	out := make([]domain.Instruction, 0)
	if !directions.IsArray() {
		return out
	}
	for i, step := range directions.Array() {
		out = append(out, instruction(i, step))
	}
	return out
}

func instruction(i int, step gjson.Result) domain.Instruction {
	id := i + 1
	if n := integer(first(step, "step_id", "step")); n != 0 {
		id = n
	}

	text := str(first(step, "instruction", "text"), defaultInstruction)

	dir := Direction(text)
	if dt := step.Get("direction_type"); truthy(dt) {
		dir = domain.DirectionType(dt.String())
	}

	return domain.Instruction{
		ID:        id,
		Text:      text,
		Distance:  str(step.Get("distance"), domain.NotAvailable),
		Direction: dir,
		Compass:   optStr(first(step, "compass_direction", "bearing")),
	}
}

func provenance(r gjson.Result) domain.Provenance {
	return domain.Provenance{
		StationsCount:   integer(r.Get("stations_count")),
		DeliveriesCount: integer(r.Get("deliveries_count")),
		TrucksCount:     integer(r.Get("trucks_count")),
		WeatherData:     str(r.Get("weather_data"), domain.NotAvailable),
		AIAnalysis:      str(r.Get("ai_analysis"), domain.NotAvailable),
		Raw:             object(r),
	}
}

func TomTomRoute(raw []byte) domain.TomTomRoute {
	doc := parse(raw)
	return domain.TomTomRoute{
		Origin:      coords(doc.Get("origin")),
		Destination: coords(doc.Get("destination")),
		RouteData:   object(doc.Get("route_data")),
	}
}

func ReachableRange(raw []byte) domain.ReachableRange {
	doc := parse(raw)
	return domain.ReachableRange{
		Origin:      coords(doc.Get("origin")),
		BudgetType:  str(doc.Get("budget_type"), domain.NotAvailable),
		BudgetValue: num(doc.Get("budget_value")),
		RangeData:   object(doc.Get("range_data")),
	}
}

func coords(r gjson.Result) []float64 {
	out := make([]float64, 0, 2)
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		out = append(out, num(v))
	}
	return out
}
