package domain

// Fuel level thresholds in percent.
const (
	WellStockedPercent = 70
	LowFuelPercent     = 30
	CriticalPercent    = 20
)

type StockLevel string

const (
	StockWellStocked StockLevel = "well_stocked"
	StockModerate    StockLevel = "moderate"
	StockLow         StockLevel = "low"
	StockCritical    StockLevel = "critical"
)

// Fuel station as reported by the backend.
type Station struct {
	ID                 string  `json:"station_id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	City               string  `json:"city"`
	Region             string  `json:"region"`
	FuelType           string  `json:"fuel_type"`
	CapacityLiters     float64 `json:"capacity_liters"`
	CurrentLevelLiters float64 `json:"current_level_liters"`
	FuelLevelPercent   float64 `json:"fuel_level_percent"`
	NeedsRefuel        bool    `json:"needs_refuel"`
	RequestMethod      string  `json:"request_method"`
}

type StationList struct {
	Stations []Station `json:"stations"`
	Count    int       `json:"count"`
}

func (s Station) NeedsFuel() bool {
	return s.NeedsRefuel || s.FuelLevelPercent < LowFuelPercent
}

func (s Station) Stock() StockLevel {
	switch {
	case s.FuelLevelPercent >= WellStockedPercent:
		return StockWellStocked
	case s.FuelLevelPercent >= LowFuelPercent:
		return StockModerate
	case s.FuelLevelPercent >= CriticalPercent:
		return StockLow
	default:
		return StockCritical
	}
}

// Return stations that need a delivery, critical first, preserving backend order otherwise.
func StationsNeedingFuel(stations []Station) []Station {
	critical := make([]Station, 0)
	rest := make([]Station, 0)
	for _, s := range stations {
		if !s.NeedsFuel() {
			continue
		}
		if s.Stock() == StockCritical {
			critical = append(critical, s)
			continue
		}
		rest = append(rest, s)
	}
	return append(critical, rest...)
}
