package controller

import (
	"encoding/json"
	"net/http"
)

// Machine readable codes written by the generic handlers of this package.
const (
	// CodeUncaughtError is used for every error no handler dealt with.
	CodeUncaughtError = "UNCAUGHT_ERROR"
	// CodeRouteNotFound is used when no route matched the request.
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
)

// Clarification is structured auxiliary data attached to an error response.
type Clarification map[string]any

// ErrorResponse is the JSON shape of every error written by SendError.
type ErrorResponse struct {
	Code          string        `json:"code"`
	Message       string        `json:"message"`
	Clarification Clarification `json:"clarification"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// SendError writes the standard error payload {code, message, clarification}.
// A zero status is sent as 500 and a nil clarification as an empty object.
func SendError(w http.ResponseWriter, status int, code, message string, clarification Clarification) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if clarification == nil {
		clarification = Clarification{}
	}

	WriteJSON(w, status, ErrorResponse{
		Code:          code,
		Message:       message,
		Clarification: clarification,
	})
}
