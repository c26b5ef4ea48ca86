package controller

import (
	"net/http"

	"go.uber.org/zap"
)

// InitiatorServiceHeader names the internal service that issued a request.
const InitiatorServiceHeader = "X-Internal-Initiator-Service"

// Deprecated returns a wrapper that logs a warning for every call of the
// wrapped route before delegating to it. The warning names the requested route
// and the initiating internal service, or "not set" when the header is absent.
func Deprecated(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initiator := r.Header.Get(InitiatorServiceHeader)
			if initiator == "" {
				initiator = "not set"
			}

			log.Warn("Called DEPRECATED route",
				zap.String("route", r.URL.RequestURI()),
				zap.String("initiator_service", initiator))

			next.ServeHTTP(w, r)
		})
	}
}
