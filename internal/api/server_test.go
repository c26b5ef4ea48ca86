package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"resolver/internal/api"
	"resolver/pkg/controller"
	"resolver/pkg/domain"
	"strings"
	"testing"
	"time"

	mockstorage "resolver/pkg/storage/mock"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T) (*mockstorage.MockStorage, *observer.ObservedLogs, *httptest.Server) {
	t.Helper()

	return newTestServerWithTimeout(t, 5*time.Second)
}

func newTestServerWithTimeout(
	t *testing.T,
	requestTimeout time.Duration) (*mockstorage.MockStorage, *observer.ObservedLogs, *httptest.Server) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)

	handler, err := api.NewHandler(api.Deps{
		Storage:  st,
		Log:      zap.New(core),
		Registry: prometheus.NewRegistry(),
	}, api.Options{
		RequestTimeout: requestTimeout,
		MaxBodyBytes:   1024,
		MetricsPath:    "/metrics",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return st, logs, srv
}

func do(t *testing.T, method, url, body string, header http.Header) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, string(b)
}

func TestServer_ResolveItems(t *testing.T) {
	st, _, srv := newTestServer(t)

	gomock.InOrder(
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("1")).Return(&domain.Item{ID: "1", Name: "one"}, nil),
		st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("2")).Return(nil, nil),
	)

	res, body := do(t, http.MethodPost, srv.URL+"/v1/items/resolve", `{"ids":["1","2"]}`, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get(controller.RequestIDHeader))

	var out struct {
		List        []domain.Item `json:"list"`
		NotFoundIDs []string      `json:"notFoundIds"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.List, 1)
	require.Equal(t, []string{"2"}, out.NotFoundIDs)

	// resolution outcomes are exported
	_, metricsBody := do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Regexp(t, `batch.ids.found`, metricsBody)
}

func TestServer_DeprecatedRouteLogsInitiator(t *testing.T) {
	st, logs, srv := newTestServer(t)
	st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("a")).Return(nil, nil)

	header := http.Header{}
	header.Set(controller.InitiatorServiceHeader, "billing")
	res, body := do(t, http.MethodGet, srv.URL+"/v1/items?ids=a", "", header)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"list":[],"notFoundIds":["a"]}`, body)

	entries := logs.FilterMessage("Called DEPRECATED route").All()
	require.Len(t, entries, 1)
	require.Equal(t, "/v1/items?ids=a", entries[0].ContextMap()["route"])
	require.Equal(t, "billing", entries[0].ContextMap()["initiator_service"])
}

func TestServer_RouteNotFound(t *testing.T) {
	_, _, srv := newTestServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/nope?x=1", "", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.JSONEq(t, `{"code":"ROUTE_NOT_FOUND","message":"Route not found","clarification":{"route":"/nope?x=1"}}`, body)
}

func TestServer_BodyParseError(t *testing.T) {
	_, logs, srv := newTestServer(t)

	res, body := do(t, http.MethodPost, srv.URL+"/v1/items/resolve", `{"ids": [`, nil)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.JSONEq(t, `{"code":"UNCAUGHT_ERROR","message":"Uncaught error","clarification":{}}`, body)

	entries := logs.FilterMessage("JSON body parse error").All()
	require.Len(t, entries, 1)
	require.Equal(t, `{"ids": [`, entries[0].ContextMap()["request"])
}

func TestServer_BodyWithTrailingData(t *testing.T) {
	_, logs, srv := newTestServer(t)

	payload := `{"ids":["a"]} not json`
	res, body := do(t, http.MethodPost, srv.URL+"/v1/items/resolve", payload, nil)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.JSONEq(t, `{"code":"UNCAUGHT_ERROR","message":"Uncaught error","clarification":{}}`, body)

	entries := logs.FilterMessage("JSON body parse error").All()
	require.Len(t, entries, 1)
	require.Equal(t, "/v1/items/resolve", entries[0].ContextMap()["endpoint"])
	require.Equal(t, payload, entries[0].ContextMap()["request"])
}

func TestServer_RequestTimeout(t *testing.T) {
	st, _, srv := newTestServerWithTimeout(t, 50*time.Millisecond)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	st.EXPECT().ItemByID(gomock.Any(), domain.ItemID("slow")).DoAndReturn(
		func(ctx context.Context, _ domain.ItemID) (*domain.Item, error) {
			<-ctx.Done()
			<-release

			return nil, ctx.Err()
		},
	)

	res, body := do(t, http.MethodGet, srv.URL+"/v1/items/slow", "", nil)
	require.Equal(t, http.StatusGatewayTimeout, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.NotEmpty(t, res.Header.Get(controller.RequestIDHeader))
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	require.JSONEq(t, `{"code":"TIMEOUT","message":"Request timed out","clarification":{}}`, body)
}

func TestServer_BodyTooLarge(t *testing.T) {
	_, _, srv := newTestServer(t)

	res, _ := do(t, http.MethodPost, srv.URL+"/v1/items/resolve", `{"ids":"`+strings.Repeat("a", 2048)+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServer_Specs(t *testing.T) {
	_, _, srv := newTestServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/specs/v1.yaml", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/yaml", res.Header.Get("Content-Type"))
	require.Contains(t, body, "/items/resolve")
}

func TestServer_Health(t *testing.T) {
	st, _, srv := newTestServer(t)
	st.EXPECT().Ping(gomock.Any()).Return(nil)

	res, body := do(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_Preflight(t *testing.T) {
	_, _, srv := newTestServer(t)

	res, _ := do(t, http.MethodOptions, srv.URL+"/v1/items/resolve", "", nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
