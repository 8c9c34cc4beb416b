package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/cars-api/internal/config"
	"github.com/deppfellow/cars-api/internal/errs"
	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/middleware"
	"github.com/deppfellow/cars-api/internal/repository"
	"github.com/deppfellow/cars-api/internal/server"
)

func newTestRouter(t *testing.T, mutate func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.Default()
	cfg.ConnectionStrings.AzureSQL = "postgres://localhost/cars"
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	s := server.NewWithDatabase(cfg, &logger, nil, nil)

	return NewRouter(s, handler.NewHandlers(s, &repository.Repositories{Cars: repository.NewMemoryCarRepository()}))
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCarsRoutesRegistered(t *testing.T) {
	e := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/cars", strings.NewReader(`{"name":"Saab"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/cars", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Saab"}]`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPut, "/cars/1", strings.NewReader(`{"id":1,"name":"9-3"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusCreated, serve(e, req).Code)

	assert.Equal(t, http.StatusNoContent, serve(e, httptest.NewRequest(http.MethodDelete, "/cars/1", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(e, httptest.NewRequest(http.MethodGet, "/cars/1", nil)).Code)
}

func TestFunctionKeyProtectsCarsOnly(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Auth.FunctionKey = "s3cret"
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/cars", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/cars", nil)
	req.Header.Set(middleware.FunctionKeyHeader, "s3cret")
	assert.Equal(t, http.StatusOK, serve(e, req).Code)

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/cars?code=s3cret", nil)).Code)

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/status", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/docs", nil)).Code)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/trucks", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestRouter(t, nil)
	serve(e, httptest.NewRequest(http.MethodGet, "/cars", nil))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/cars"`)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Observability.Metrics.Enabled = false
	})

	assert.Equal(t, http.StatusNotFound, serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestStatusWithoutDatabase(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disabled"`)
}

func TestNonIntegerIDMatchesNoRoute(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/cars/abc", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body.Message)
}
