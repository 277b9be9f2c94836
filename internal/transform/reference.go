package transform

import (
	"fuel-dispatch-dashboard/internal/domain"

	"github.com/tidwall/gjson"
)

func Trucks(raw []byte) domain.TruckList {
	doc := parse(raw)
	trucks := make([]domain.Truck, 0)
	for _, r := range list(doc, "trucks") {
		trucks = append(trucks, truck(r))
	}
	return domain.TruckList{Trucks: trucks, Count: count(doc, len(trucks))}
}

func Truck(raw []byte) domain.Truck {
	return truck(unwrap(parse(raw), "truck"))
}

func truck(r gjson.Result) domain.Truck {
	return domain.Truck{
		ID:               str(r.Get("truck_id"), domain.NotAvailable),
		Code:             str(r.Get("code"), domain.NotAvailable),
		PlateNumber:      str(first(r, "plate_number", "plate"), domain.NotAvailable),
		Status:           str(r.Get("status"), domain.NotAvailable),
		FuelType:         str(r.Get("fuel_type"), domain.NotAvailable),
		CapacityLiters:   num(r.Get("capacity_liters")),
		FuelLevelPercent: num(r.Get("fuel_level_percent")),
	}
}

func Stations(raw []byte) domain.StationList {
	doc := parse(raw)
	stations := make([]domain.Station, 0)
	for _, r := range list(doc, "stations") {
		stations = append(stations, station(r))
	}
	return domain.StationList{Stations: stations, Count: count(doc, len(stations))}
}

func Station(raw []byte) domain.Station {
	return station(unwrap(parse(raw), "station"))
}

func station(r gjson.Result) domain.Station {
	capacity := num(first(r, "capacity_liters", "capacity"))
	current := num(first(r, "current_level_liters", "current_level"))

	// The list endpoint reports fuel_level, the dispatch shape fuel_level_percent.
	percent := num(first(r, "fuel_level_percent", "fuel_level"))
	if percent == 0 && capacity > 0 && current > 0 {
		percent = float64(int(current / capacity * 100))
	}

	return domain.Station{
		ID:                 str(r.Get("station_id"), domain.NotAvailable),
		Code:               str(r.Get("code"), domain.NotAvailable),
		Name:               str(r.Get("name"), domain.NotAvailable),
		City:               str(r.Get("city"), domain.NotAvailable),
		Region:             str(r.Get("region"), domain.NotAvailable),
		FuelType:           str(r.Get("fuel_type"), domain.NotAvailable),
		CapacityLiters:     capacity,
		CurrentLevelLiters: current,
		FuelLevelPercent:   percent,
		NeedsRefuel:        r.Get("needs_refuel").Bool(),
		RequestMethod:      str(r.Get("request_method"), domain.NotAvailable),
	}
}

func Trips(raw []byte) domain.TripList {
	doc := parse(raw)
	trips := make([]domain.Trip, 0)
	for _, r := range list(doc, "trips") {
		trips = append(trips, trip(r))
	}

	n := count(doc, len(trips))
	total := n
	if t := doc.Get("total_available"); truthy(t) {
		total = integer(t)
	}
	return domain.TripList{Trips: trips, Count: n, TotalAvailable: total}
}

func Trip(raw []byte) domain.Trip {
	return trip(unwrap(parse(raw), "trip"))
}

func trip(r gjson.Result) domain.Trip {
	return domain.Trip{
		ID:           str(r.Get("trip_id"), domain.NotAvailable),
		VolumeLiters: num(r.Get("volume_liters")),
		Date:         str(r.Get("date"), domain.NotAvailable),
		Status:       str(r.Get("status"), domain.NotAvailable),
		Station:      str(r.Get("station"), domain.NotAvailable),
		Truck:        str(r.Get("truck"), domain.NotAvailable),
		City:         str(r.Get("city"), domain.NotAvailable),
		Region:       str(r.Get("region"), domain.NotAvailable),
		Lat:          optNum(r.Get("lat")),
		Lon:          optNum(r.Get("lon")),
	}
}

// count prefers the backend's count and falls back to the decoded length.
func count(doc gjson.Result, n int) int {
	if c := doc.Get("count"); c.Type == gjson.Number {
		return int(c.Num)
	}
	return n
}
