package domain

type Health struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (h Health) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}
