package server

import (
	"context"
	"net/http"
	"time"

	httpx "station-dashboard/internal/common/http"
)

// Check is one readiness dependency.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

func Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready runs every check and reports 503 when any fails.
func Ready(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.Run(ctx); err != nil {
				results[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[c.Name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		httpx.WriteJSON(w, status, map[string]interface{}{"status": state, "checks": results})
	}
}
