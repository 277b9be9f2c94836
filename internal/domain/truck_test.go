package domain

import (
	"testing"
)

func TestActiveTrucks(t *testing.T) {
	trucks := []Truck{
		{Code: "T1", Status: TruckActive},
		{Code: "T2", Status: TruckMaintenance},
		{Code: "T3", Status: TruckActive},
		{Code: "T4", Status: TruckOffline},
	}

	got := ActiveTrucks(trucks)
	if len(got) != 2 {
		t.Fatalf("expected 2 active trucks, got %d", len(got))
	}
	if got[0].Code != "T1" || got[1].Code != "T3" {
		t.Fatalf("unexpected order: %q, %q", got[0].Code, got[1].Code)
	}
}

func TestStationsNeedingFuel(t *testing.T) {
	stations := []Station{
		{Code: "A", FuelLevelPercent: 80},
		{Code: "B", FuelLevelPercent: 25},
		{Code: "C", FuelLevelPercent: 60, NeedsRefuel: true},
		{Code: "D", FuelLevelPercent: 5},
	}

	got := StationsNeedingFuel(stations)
	if len(got) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(got))
	}

	// critical stations go first
	if got[0].Code != "D" {
		t.Fatalf("expected first station D, got %q", got[0].Code)
	}
	if got[1].Code != "B" || got[2].Code != "C" {
		t.Fatalf("unexpected order: %q, %q", got[1].Code, got[2].Code)
	}
}

func TestStationStock(t *testing.T) {
	tests := []struct {
		percent float64
		want    StockLevel
	}{
		{95, StockWellStocked},
		{70, StockWellStocked},
		{45, StockModerate},
		{30, StockModerate},
		{22, StockLow},
		{19.9, StockCritical},
	}

	for _, tc := range tests {
		s := Station{FuelLevelPercent: tc.percent}
		if got := s.Stock(); got != tc.want {
			t.Errorf("Stock(%v) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}
