package transform

import (
	"fuel-dispatch-dashboard/internal/domain"

	"github.com/tidwall/gjson"
)

// Weather accepts both {"city", "weather": {...}} and a bare conditions object.
func Weather(raw []byte) domain.Weather {
	doc := parse(raw)
	w := unwrap(doc, "weather")

	return domain.Weather{
		City:      str(first(w, "city", "location"), str(doc.Get("city"), domain.NotAvailable)),
		Location:  str(first(w, "location", "city"), domain.NotAvailable),
		TempC:     num(w.Get("temp_c")),
		Condition: str(w.Get("condition"), domain.NotAvailable),
		WindKph:   num(w.Get("wind_kph")),
		Humidity:  num(w.Get("humidity")),
	}
}

func Health(raw []byte) domain.Health {
	doc := parse(raw)
	services := map[string]string{}
	if s := doc.Get("services"); s.IsObject() {
		s.ForEach(func(k, v gjson.Result) bool {
			services[k.String()] = v.String()
			return true
		})
	}
	return domain.Health{
		Status:   str(doc.Get("status"), domain.NotAvailable),
		Services: services,
	}
}

// Predictions maps a Places Autocomplete (New) response. Predictions without
// display text are dropped.
func Predictions(raw []byte) []domain.Suggestion {
	out := make([]domain.Suggestion, 0)
	for _, s := range list(parse(raw), "suggestions") {
		p := s.Get("placePrediction")
		text := str(first(p, "text.text", "structuredFormat.mainText.text"), "")
		if text == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Text:    text,
			PlaceID: str(first(p, "placeId", "place"), ""),
		})
	}
	return out
}
