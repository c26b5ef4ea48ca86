// Package v1handler implements the handlers of the v1 HTTP API.
package v1handler

import (
	"resolver/internal/items"
)

// Deps holds the services the v1 handlers depend on.
type Deps struct {
	Items items.Service
}

// Handler serves the v1 API. Every method matches controller.HandlerFunc and
// returns errors instead of writing error responses itself.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}
