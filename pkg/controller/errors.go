package controller

import (
	"errors"
	"net/http"
	"resolver/pkg/serrors"
	"unicode/utf8"

	"go.uber.org/zap"
)

// rawBodyLogLimit caps how much of a malformed payload ends up in the logs.
const rawBodyLogLimit = 80

// ErrorHandler writes the response for an error returned while serving r.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// HandlerFunc is an http.HandlerFunc that may fail. Returned errors are passed
// to an ErrorHandler by Handle.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// kindStatuses maps semantic kinds to the status written for them. Kinds
// missing here, ErrInternal and ErrBodyParse included, are treated as
// uncaught errors.
var kindStatuses = map[serrors.Kind]int{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     http.StatusNotFound,
	serrors.ErrUnauthorized: http.StatusUnauthorized,
	serrors.ErrForbidden:    http.StatusForbidden,
	serrors.ErrBadRequest:   http.StatusBadRequest,
	serrors.ErrConflict:     http.StatusConflict,
	serrors.ErrTimeout:      http.StatusGatewayTimeout,
	serrors.ErrUnavailable:  http.StatusServiceUnavailable,
	serrors.ErrRateLimited:  http.StatusTooManyRequests,
}

// NewErrorHandler returns the error handler of last resort.
//
// Errors carrying a known semantic kind are answered with the kind as code and
// their message. Everything else is logged with a stack trace and answered
// with UNCAUGHT_ERROR and status 500. Body parse failures additionally log
// the endpoint and the beginning of the captured raw payload.
func NewErrorHandler(log *zap.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		l := log
		if id := RequestID(r.Context()); id != "" {
			l = l.With(zap.String(string(RequestIDKey), id))
		}

		if k := serrors.KindOf(err); k != nil {
			if status, ok := kindStatuses[k]; ok {
				l.Warn("request failed", zap.Error(err), zap.Int("status_code", status))
				SendError(w, status, k.Error(), serrors.MessageOf(err), nil)

				return
			}
		}

		if errors.Is(err, ErrBodyParse) {
			raw, _ := RawBody(r.Context())
			l.Error("JSON body parse error",
				zap.String("endpoint", r.URL.RequestURI()),
				zap.String("request", truncate(raw, rawBodyLogLimit)))
		}

		l.Error(err.Error(), zap.Error(err), zap.Stack("stack"))
		SendError(w, http.StatusInternalServerError, CodeUncaughtError, "Uncaught error", nil)
	}
}

// NotFoundHandler answers every request with ROUTE_NOT_FOUND and the
// requested route as clarification.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SendError(w, http.StatusNotFound, CodeRouteNotFound, "Route not found", Clarification{
			"route": r.URL.RequestURI(),
		})
	})
}

// Handle adapts fn to an http.Handler, handing any returned error to onError.
func Handle(onError ErrorHandler, fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			onError(w, r, err)
		}
	})
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	end := 0
	for range n {
		if end >= len(s) {
			return s
		}
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}

	return s[:end]
}
