// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the item resolver service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"resolver/internal/api/handler/v1handler"
	"resolver/internal/config"
	"resolver/internal/items"
	"resolver/pkg/controller"
	"resolver/pkg/metrics"
	"resolver/pkg/storage"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global deadline for handling a request; zero disables it.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MaxBodyBytes limits request payloads captured by the raw body middleware.
	MaxBodyBytes int64
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps are the collaborators the server is built from.
type Deps struct {
	// Storage backs the item service.
	Storage storage.Storage
	// Log receives error, deprecation and panic logs.
	Log *zap.Logger
	// Registry receives the exported metrics. Nil means the prometheus default registry.
	Registry *prometheus.Registry
}

// NewHandler builds the complete middleware chain and routes:
// - Prometheus metrics endpoint (MetricsPath) fed by an OpenTelemetry exporter
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 item routes, the legacy list route marked as deprecated
// - health check and pprof endpoints
// - a ROUTE_NOT_FOUND fallback for everything else.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	var (
		registerer    prometheus.Registerer = prometheus.DefaultRegisterer
		metricHandler                       = promhttp.Handler()
	)
	if deps.Registry != nil {
		registerer = deps.Registry
		metricHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}

	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle("GET "+opts.MetricsPath, metricHandler)

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	batchMetrics, err := metrics.NewBatch(mp)
	if err != nil {
		return nil, fmt.Errorf("could not create batch metrics: %w", err)
	}

	// v1 specs file
	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"Item Resolver Service",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	onError := controller.NewErrorHandler(log)
	h := v1handler.New(v1handler.Deps{
		Items: items.New(deps.Storage, batchMetrics),
	})
	deprecated := controller.Deprecated(log)

	mux.Handle("POST /v1/items/resolve", controller.Handle(onError, h.ResolveItems))
	mux.Handle("GET /v1/items", deprecated(controller.Handle(onError, h.ListItems)))
	mux.Handle("GET /v1/items/{id}", controller.Handle(onError, h.GetItem))
	mux.Handle("PUT /v1/items/{id}", controller.Handle(onError, h.PutItem))
	mux.Handle("GET /healthz", controller.Handle(onError, h.Health))

	// pprof
	mux.Handle(controller.PprofPath, controller.PprofMux())

	// fallback
	mux.Handle("/", controller.NotFoundHandler())

	handler := controller.WithRawBody(opts.MaxBodyBytes, onError)(mux)
	handler = controller.WithRecover(onError)(handler)
	handler = controller.WithTimeout(opts.RequestTimeout)(handler)

	// cors
	handler = controller.WithCORS(handler)

	// logger
	handler = controller.WithLogger(handler)

	return handler, nil
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
