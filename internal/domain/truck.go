package domain

const (
	TruckActive      = "active"
	TruckMaintenance = "maintenance"
	TruckOffline     = "offline"
)

// Delivery truck as reported by the backend.
type Truck struct {
	ID               string  `json:"truck_id"`
	Code             string  `json:"code"`
	PlateNumber      string  `json:"plate_number"`
	Status           string  `json:"status"`
	FuelType         string  `json:"fuel_type"`
	CapacityLiters   float64 `json:"capacity_liters"`
	FuelLevelPercent float64 `json:"fuel_level_percent"`
}

type TruckList struct {
	Trucks []Truck `json:"trucks"`
	Count  int     `json:"count"`
}

// Payload for creating a truck.
type NewTruck struct {
	Code           string  `json:"code"`
	PlateNumber    string  `json:"plate_number,omitempty"`
	CapacityLiters float64 `json:"capacity_liters,omitempty"`
	FuelType       string  `json:"fuel_type,omitempty"`
	Status         string  `json:"status,omitempty"`
}

func (t Truck) Active() bool {
	return t.Status == TruckActive
}

// Return only the trucks currently available for dispatch.
func ActiveTrucks(trucks []Truck) []Truck {
	out := make([]Truck, 0, len(trucks))
	for _, t := range trucks {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}
