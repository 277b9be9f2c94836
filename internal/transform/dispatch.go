package transform

import (
	"fuel-dispatch-dashboard/internal/domain"

	"github.com/tidwall/gjson"
)

// Top-level dispatch keys mapped onto typed fields. Everything else goes to Extra.
var dispatchKeys = map[string]bool{
	"truck":                true,
	"route_stops":          true,
	"dispatch_summary":     true,
	"optimization_summary": true,
	"stations_available":   true,
	"depot_location":       true,
	"ai_analysis":          true,
	"data_sources":         true,
}

// Dispatch maps a dispatch optimization payload onto domain.DispatchResult.
// Unmodelled top-level fields are passed through in Extra.
func Dispatch(raw []byte) domain.DispatchResult {
	doc := parse(raw)
	truck := doc.Get("truck")
	summary := doc.Get("dispatch_summary")

	res := domain.DispatchResult{
		Truck: domain.DispatchTruck{
			ID:           str(truck.Get("truck_id"), domain.NotAvailable),
			Code:         str(truck.Get("code"), domain.NotAvailable),
			Plate:        str(first(truck, "plate", "plate_number"), domain.NotAvailable),
			Status:       str(truck.Get("status"), domain.NotAvailable),
			Compartments: objects(truck.Get("compartments")),
		},
		Stops: stops(doc.Get("route_stops")),
		Summary: domain.DispatchSummary{
			TotalStations:     str(summary.Get("total_stations"), domain.NotAvailable),
			TotalDistance:     str(summary.Get("total_distance"), domain.NotAvailable),
			EstimatedDuration: str(summary.Get("estimated_duration"), domain.NotAvailable),
			TotalFuel:         str(summary.Get("total_fuel"), domain.NotAvailable),
			DepartureTime:     str(summary.Get("departure_time"), domain.NotAvailable),
			ReturnTime:        str(summary.Get("return_time"), domain.NotAvailable),
		},
		Optimization:      object(doc.Get("optimization_summary")),
		StationsAvailable: objects(doc.Get("stations_available")),
		DepotLocation:     str(doc.Get("depot_location"), domain.NotAvailable),
		Analysis:          str(doc.Get("ai_analysis"), ""),
		Sources:           provenance(doc.Get("data_sources")),
		Extra:             map[string]any{},
	}

	if doc.IsObject() {
		doc.ForEach(func(k, v gjson.Result) bool {
			if !dispatchKeys[k.String()] {
				res.Extra[k.String()] = v.Value()
			}
			return true
		})
	}
	return res
}

func stops(r gjson.Result) []domain.DispatchStop {
	out := make([]domain.DispatchStop, 0)
	if !r.IsArray() {
		return out
	}
	for _, s := range r.Array() {
		out = append(out, domain.DispatchStop{
			Station:      str(s.Get("station"), domain.NotAvailable),
			Distance:     str(s.Get("distance"), domain.NotAvailable),
			FuelDelivery: str(s.Get("fuel_delivery"), domain.NotAvailable),
			ETA:          str(s.Get("eta"), domain.NotAvailable),
			Reason:       str(s.Get("reason"), ""),
		})
	}
	return out
}

func Recommendations(raw []byte) domain.Recommendations {
	doc := parse(raw)

	recs := make([]domain.Recommendation, 0)
	for _, r := range list(doc, "recommendations") {
		recs = append(recs, domain.Recommendation{
			TruckCode:         str(r.Get("truck_code"), domain.NotAvailable),
			Priority:          str(r.Get("priority"), domain.NotAvailable),
			Rationale:         str(r.Get("rationale"), ""),
			StationCount:      str(r.Get("station_count"), domain.NotAvailable),
			TotalDistance:     str(r.Get("total_distance"), domain.NotAvailable),
			TotalFuelDelivery: str(r.Get("total_fuel_delivery"), domain.NotAvailable),
			EstimatedDuration: str(r.Get("estimated_duration"), domain.NotAvailable),
			RouteSummary:      str(r.Get("route_summary"), ""),
			Raw:               object(r),
		})
	}

	return domain.Recommendations{
		Recommendations: recs,
		Summary:         str(doc.Get("summary"), ""),
		TotalTrucks:     integer(doc.Get("total_trucks")),
		TotalStations:   integer(doc.Get("total_stations")),
		Analysis:        str(doc.Get("ai_analysis"), ""),
	}
}

func Filters(raw []byte) domain.DispatchFilters {
	doc := parse(raw)
	return domain.DispatchFilters{
		Regions: stringList(doc.Get("regions")),
		Cities:  stringList(doc.Get("cities")),
	}
}
