package controller

import (
	"fmt"
	"net/http"
)

// WithRecover returns a middleware that turns panics of the next handler into
// errors handed to onError. http.ErrAbortHandler is re-panicked so net/http
// can abort the response as intended.
func WithRecover(onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler { //nolint: errorlint, err113
					panic(p)
				}

				err, ok := p.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", p) //nolint: err113
				} else {
					err = fmt.Errorf("panic: %w", err)
				}
				onError(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
