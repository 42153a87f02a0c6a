package transactions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(service *Service, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	NewHandler(service).RegisterRoutes(api)
	return r
}

func TestCreateTransactionHandler(t *testing.T) {
	service, d := newTestService()
	userID := uuid.New()
	assessment := &fraud.Assessment{Score: 0, RiskLevel: fraud.RiskLevelLow, Reasons: []string{}}

	d.users.On("UserExists", mock.Anything, userID).Return(true, nil).Once()
	d.repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	d.assessor.On("Assess", mock.Anything, mock.Anything).Return(assessment, nil).Once()
	d.repo.On("UpdateFraudResult", mock.Anything, mock.Anything, 0.0, false).Return(nil).Once()
	d.audit.On("LogAction", mock.Anything, userID, ActionCreateTransaction, EntityTypeTransaction, mock.Anything, mock.Anything).Return(nil).Once()
	d.dashboard.On("Invalidate", mock.Anything, userID).Return(nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"amount":           "42.50",
		"type":             "EXPENSE",
		"category":         "groceries",
		"transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(service, userID).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, StatusCompleted, data["status"])
	assert.Equal(t, "LOW", data["risk_level"])
	assert.Equal(t, "42.5", data["amount"])
}

func TestCreateTransactionHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing amount", map[string]interface{}{"type": "EXPENSE", "category": "food", "transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339)}},
		{"negative amount", map[string]interface{}{"amount": -5, "type": "EXPENSE", "category": "food", "transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339)}},
		{"sub-cent amount", map[string]interface{}{"amount": "0.004", "type": "EXPENSE", "category": "food", "transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339)}},
		{"blank category", map[string]interface{}{"amount": 5, "type": "EXPENSE", "category": "   ", "transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339)}},
		{"bad type", map[string]interface{}{"amount": 5, "type": "TRANSFER", "category": "food", "transaction_date": time.Now().Add(-time.Hour).Format(time.RFC3339)}},
		{"future date", map[string]interface{}{"amount": 5, "type": "EXPENSE", "category": "food", "transaction_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, d := newTestService()
			body, _ := json.Marshal(tt.body)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(service, uuid.New()).ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestListTransactionsHandlerFilters(t *testing.T) {
	service, d := newTestService()
	userID := uuid.New()

	d.repo.On("List", mock.Anything, userID, mock.MatchedBy(func(f *ListFilters) bool {
		return f.Type != nil && *f.Type == models.TransactionTypeExpense &&
			f.Category == "food" &&
			f.Fraudulent != nil && *f.Fraudulent &&
			f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To.Equal(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)) &&
			f.SortBy == "amount" && !f.SortDesc
	}), 5, 10).Return([]*models.Transaction{{ID: uuid.New(), UserID: userID}}, 11, nil).Once()

	w := httptest.NewRecorder()
	url := "/api/v1/transactions?type=expense&category=food&fraudulent=true&start_date=2024-01-01&end_date=2024-01-31&sort=amount&direction=asc&limit=5&offset=10"
	setupRouter(service, userID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(11), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
	d.repo.AssertExpectations(t)
}

func TestListTransactionsHandlerBadQuery(t *testing.T) {
	for _, q := range []string{"type=transfer", "fraudulent=maybe", "start_date=01/02/2024"} {
		t.Run(q, func(t *testing.T) {
			service, _ := newTestService()
			w := httptest.NewRecorder()
			setupRouter(service, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions?"+q, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTransactionHandlersRequireUser(t *testing.T) {
	service, _ := newTestService()
	w := httptest.NewRecorder()
	setupRouter(service, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseDateParam(t *testing.T) {
	got, err := ParseDateParam("", true)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDateParam("2024-03-10T08:30:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC), *got)

	got, err = ParseDateParam("2024-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *got)

	_, err = ParseDateParam("yesterday", false)
	assert.Error(t, err)
}
