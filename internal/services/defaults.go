package services

// Defaults fills request fields the caller left empty.
type Defaults struct {
	Model         string
	DepotLocation string
	TripsLimit    int
}

const (
	DefaultMaxRecommendations = 5
	DefaultTripsLimit         = 50
	DefaultDepotLocation      = "Toronto"
)

func (d Defaults) model(m string) string {
	if m != "" {
		return m
	}
	return d.Model
}

func (d Defaults) depot(loc string) string {
	if loc != "" {
		return loc
	}
	if d.DepotLocation != "" {
		return d.DepotLocation
	}
	return DefaultDepotLocation
}

func (d Defaults) tripsLimit(n int) int {
	if n > 0 {
		return n
	}
	if d.TripsLimit > 0 {
		return d.TripsLimit
	}
	return DefaultTripsLimit
}
