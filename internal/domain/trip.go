package domain

const TripCompleted = "completed"

// A completed (or attempted) delivery trip.
type Trip struct {
	ID           string   `json:"trip_id"`
	VolumeLiters float64  `json:"volume_liters"`
	Date         string   `json:"date"`
	Status       string   `json:"status"`
	Station      string   `json:"station"`
	Truck        string   `json:"truck"`
	City         string   `json:"city"`
	Region       string   `json:"region"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
}

func (t Trip) Successful() bool {
	return t.Status == TripCompleted
}

type TripList struct {
	Trips          []Trip `json:"trips"`
	Count          int    `json:"count"`
	TotalAvailable int    `json:"total_available"`
}

// TripFilter is the filter set of the trips query.
type TripFilter struct {
	Limit          int  `json:"limit"`
	SuccessfulOnly bool `json:"successful_only"`
}
