package controller_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"resolver/pkg/controller"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithRecover(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		value any
		check func(t *testing.T, err error)
	}{
		{
			name:  "error value",
			value: boom,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, boom)
			},
		},
		{
			name:  "string value",
			value: "kaboom",
			check: func(t *testing.T, err error) {
				t.Helper()
				require.EqualError(t, err, "panic: kaboom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handled error
			onError := func(w http.ResponseWriter, _ *http.Request, err error) {
				handled = err
				w.WriteHeader(http.StatusInternalServerError)
			}
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic(tt.value)
			})

			rec := httptest.NewRecorder()
			require.NotPanics(t, func() {
				controller.WithRecover(onError)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			})
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			tt.check(t, handled)
		})
	}
}

func TestWithRecover_AbortHandlerRepanics(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})
	onError := func(http.ResponseWriter, *http.Request, error) {
		t.Fatal("abort must not reach the error handler")
	}

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		controller.WithRecover(onError)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestWithRecover_NoPanic(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	rec := httptest.NewRecorder()
	controller.WithRecover(failOnError(t))(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
}
