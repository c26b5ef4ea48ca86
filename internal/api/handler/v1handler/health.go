package v1handler

import (
	"net/http"
	"resolver/pkg/controller"
)

// HealthResponse is written by Health when all dependencies respond.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health pings the storage and reports readiness.
func (h Handler) Health(w http.ResponseWriter, r *http.Request) error {
	if err := h.deps.Items.Ping(r.Context()); err != nil {
		return err //nolint: wrapcheck
	}
	controller.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})

	return nil
}
