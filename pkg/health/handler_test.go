package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus string
		wantChecks map[string]string
	}{
		{"no dependencies", nil, StatusHealthy, nil},
		{"all up", map[string]Checker{
			"database": func() error { return nil },
			"redis":    func() error { return nil },
		}, StatusHealthy, map[string]string{"database": "healthy", "redis": "healthy"}},
		{"redis down", map[string]Checker{
			"database": func() error { return nil },
			"redis":    func() error { return errors.New("connection refused") },
		}, StatusUnhealthy, map[string]string{"database": "healthy", "redis": "unhealthy: connection refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Run("finsight", "1.0.0", tt.checks)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantChecks, report.Checks)
			assert.Equal(t, "finsight", report.Service)
		})
	}
}

func TestReadyHandler(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", ReadyHandler("finsight", "1.0.0", map[string]Checker{
		"database": func() error { return nil },
		"redis":    func() error { return errors.New("down") },
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, StatusHealthy, body.Checks["database"])
}

func TestLiveHandler(t *testing.T) {
	router := gin.New()
	router.GET("/health/live", LiveHandler("finsight", "1.0.0"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Empty(t, body.Checks)
}
