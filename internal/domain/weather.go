package domain

type WeatherRequest struct {
	City string `json:"city"`
}

// Current conditions for a single city.
type Weather struct {
	City      string  `json:"city"`
	Location  string  `json:"location"`
	TempC     float64 `json:"temp_c"`
	Condition string  `json:"condition"`
	WindKph   float64 `json:"wind_kph"`
	Humidity  float64 `json:"humidity"`
}
