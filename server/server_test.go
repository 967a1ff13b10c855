package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/server"
	"github.com/platewise/platewise/server/mocks"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, analyzeFunc func(ctx context.Context, prompt string, image []byte, mime string) (string, error)) *server.Server {
	t.Helper()

	srv, err := server.NewServerWithProvider(cfg, mocks.NewMockProvider(analyzeFunc), zaptest.NewLogger(t))
	require.NoError(t, err)
	return srv
}

func TestOperationalRoutes(t *testing.T) {
	// A provider that fails the test if it is ever invoked: neither
	// liveness, health, nor metrics may touch the backend.
	srv := newTestServer(t, testConfig(), func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
		t.Fatal("backend must not be called on operational routes")
		return "", nil
	})

	tests := []struct {
		path        string
		contentType string
		body        string
	}{
		{path: "/", contentType: "text/plain", body: "Platewise meal analysis service is running"},
		{path: "/health", contentType: "application/json", body: `"status":"ok"`},
		{path: "/metrics", contentType: "text/plain", body: "platewise_http_requests_total"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	srv := newTestServer(t, testConfig(), func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
		return `{"calories":350,"protein":40,"carbs":10,"fats":15,"description":"Grilled Chicken Salad"}`, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze-meal", strings.NewReader(`{"description":"grilled chicken salad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Response-Time"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(350), body["calories"])
	assert.Equal(t, "Grilled Chicken Salad", body["description"])
}

func TestAnalyzeBodyCap(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64

	srv := newTestServer(t, cfg, nil)

	oversized := `{"description":"` + strings.Repeat("x", 256) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze-meal", strings.NewReader(oversized))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Request body too large", body["error"])
}

func TestAnalyzeSharedSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = "hunter2"

	srv := newTestServer(t, cfg, func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
		return `{"calories":100,"description":"toast"}`, nil
	})

	t.Run("missing secret rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-meal", strings.NewReader(`{"description":"toast"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching secret passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-meal", strings.NewReader(`{"description":"toast"}`))
		req.Header.Set("X-Internal-Secret", "hunter2")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("liveness stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSharedSecretDisabledByDefault(t *testing.T) {
	srv := newTestServer(t, testConfig(), func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
		return `{"calories":100,"description":"toast"}`, nil
	})

	// No secret header anywhere; the request still goes through.
	req := httptest.NewRequest(http.MethodPost, "/analyze-meal", strings.NewReader(`{"description":"toast"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartGracefulShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 0 // let the kernel pick
	cfg.Server.ShutdownTimeout = 2 * time.Second

	srv := newTestServer(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Give the listener a moment, then trigger shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
