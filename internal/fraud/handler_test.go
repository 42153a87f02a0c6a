package fraud

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHandler(repo *mockAlertRepository, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	NewHandler(NewService(repo, nil)).RegisterRoutes(api)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListAlertsHandler(t *testing.T) {
	userID := uuid.New()
	repo := new(mockAlertRepository)
	alerts := []*FraudAlert{{ID: uuid.New(), UserID: userID, Severity: RiskLevelHigh, Message: "Suspicious transaction detected: x"}}

	repo.On("ListAlertsByUser", mock.Anything, userID, mock.MatchedBy(func(f *AlertFilters) bool {
		return f.Resolved != nil && !*f.Resolved && f.Severity != nil && *f.Severity == RiskLevelHigh
	}), 10, 0).Return(alerts, 1, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fraud/alerts?resolved=false&severity=HIGH&limit=10", nil)
	setupHandler(repo, userID).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
	assert.Equal(t, float64(1), body["meta"].(map[string]interface{})["total"])
	repo.AssertExpectations(t)
}

func TestListAlertsHandlerRejectsBadFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad resolved", "resolved=maybe"},
		{"bad severity", "severity=CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/fraud/alerts?"+tt.query, nil)
			setupHandler(new(mockAlertRepository), uuid.New()).ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListAlertsHandlerUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	setupHandler(new(mockAlertRepository), uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/fraud/alerts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResolveAlertHandler(t *testing.T) {
	userID := uuid.New()
	alertID := uuid.New()

	tests := []struct {
		name   string
		path   string
		setup  func(repo *mockAlertRepository)
		status int
	}{
		{
			name: "success",
			path: "/api/v1/fraud/alerts/" + alertID.String() + "/resolve",
			setup: func(repo *mockAlertRepository) {
				repo.On("GetAlertByID", mock.Anything, alertID).Return(&FraudAlert{ID: alertID, UserID: userID}, nil).Once()
				repo.On("MarkResolved", mock.Anything, alertID).Return(nil).Once()
			},
			status: http.StatusOK,
		},
		{
			name:   "invalid id",
			path:   "/api/v1/fraud/alerts/not-a-uuid/resolve",
			setup:  func(repo *mockAlertRepository) {},
			status: http.StatusBadRequest,
		},
		{
			name: "not found",
			path: "/api/v1/fraud/alerts/" + alertID.String() + "/resolve",
			setup: func(repo *mockAlertRepository) {
				repo.On("GetAlertByID", mock.Anything, alertID).Return(nil, ErrAlertNotFound).Once()
			},
			status: http.StatusNotFound,
		},
		{
			name: "forbidden",
			path: "/api/v1/fraud/alerts/" + alertID.String() + "/resolve",
			setup: func(repo *mockAlertRepository) {
				repo.On("GetAlertByID", mock.Anything, alertID).Return(&FraudAlert{ID: alertID, UserID: uuid.New()}, nil).Once()
			},
			status: http.StatusForbidden,
		},
		{
			name: "store error",
			path: "/api/v1/fraud/alerts/" + alertID.String() + "/resolve",
			setup: func(repo *mockAlertRepository) {
				repo.On("GetAlertByID", mock.Anything, alertID).Return(&FraudAlert{ID: alertID, UserID: userID}, nil).Once()
				repo.On("MarkResolved", mock.Anything, alertID).Return(errors.New("boom")).Once()
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockAlertRepository)
			tt.setup(repo)

			w := httptest.NewRecorder()
			setupHandler(repo, userID).ServeHTTP(w, httptest.NewRequest(http.MethodPut, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				data := decode(t, w)["data"].(map[string]interface{})
				assert.Equal(t, true, data["resolved"])
			}
		})
	}
}
