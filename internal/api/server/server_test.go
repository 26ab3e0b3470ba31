package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth bool

func (h stubHealth) Healthy(context.Context) bool { return bool(h) }

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("USE_HTTP2", "")

	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, &Config{Port: DefaultPort, CorsOrigins: []string{"*"}}, cfg)

	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", " http://a.test, ,http://b.test")
	t.Setenv("USE_HTTP2", "true")
	cfg, err = configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, &Config{Port: "9090", UseHttp2: true, CorsOrigins: []string{"http://a.test", "http://b.test"}}, cfg)

	for _, port := range []string{"abc", "0", "70000"} {
		t.Setenv("PORT", port)
		_, err = configFromEnv()
		assert.Error(t, err, port)
	}
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name    string
		healthy bool
		path    string
		status  int
		body    string
	}{
		{name: "healthy", healthy: true, path: "/health", status: http.StatusOK, body: `"ok"`},
		{name: "unhealthy", healthy: false, path: "/health", status: http.StatusServiceUnavailable, body: `"unhealthy"`},
		{name: "metrics", healthy: true, path: "/metrics", status: http.StatusOK, body: "go_goroutines"},
		{name: "not found", healthy: true, path: "/nope", status: http.StatusNotFound, body: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: DefaultPort, CorsOrigins: []string{"*"}}, stubHealth(tt.healthy)).
				SetupErrorHandler().
				SetupHealthChecks("/health").
				SetupMetrics("/metrics")
			defer s.stop()

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}
