package transactions

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/richxcame/finsight/pkg/pagination"
)

const dateOnly = "2006-01-02"

// Handler serves transaction endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new transaction handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTransaction ingests and scores a transaction
// POST /api/v1/transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateTransactionRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), userID, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	common.CreatedResponse(c, resp)
}

// GetTransaction returns one of the caller's transactions
// GET /api/v1/transactions/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid transaction id")
		return
	}

	txn, err := h.service.GetTransaction(c.Request.Context(), userID, txnID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get transaction")
		return
	}

	common.SuccessResponse(c, txn)
}

// ListTransactions returns the caller's transactions
// GET /api/v1/transactions?type=EXPENSE&category=food&start_date=2024-01-01&end_date=2024-01-31&fraudulent=true&sort=amount&direction=asc
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := parseListFilters(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params := pagination.ParseParams(c)

	txns, total, err := h.service.ListTransactions(c.Request.Context(), userID, filters, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	common.SuccessResponseWithMeta(c, txns, pagination.BuildMeta(params.Limit, params.Offset, int64(total)))
}

// RegisterRoutes registers transaction routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	txns := rg.Group("/transactions")
	{
		txns.POST("", h.CreateTransaction)
		txns.GET("", h.ListTransactions)
		txns.GET("/:id", h.GetTransaction)
	}
}

func parseListFilters(c *gin.Context) (*ListFilters, error) {
	filters := &ListFilters{
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   c.DefaultQuery("sort", "transactionDate"),
		SortDesc: !strings.EqualFold(c.Query("direction"), "asc"),
	}

	if v := c.Query("type"); v != "" {
		t, ok := models.ParseTransactionType(v)
		if !ok {
			return nil, fmt.Errorf("type must be INCOME or EXPENSE")
		}
		filters.Type = &t
	}

	if v := c.Query("fraudulent"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("fraudulent must be true or false")
		}
		filters.Fraudulent = &b
	}

	from, err := ParseDateParam(c.Query("start_date"), false)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	to, err := ParseDateParam(c.Query("end_date"), true)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	filters.From, filters.To = from, to

	return filters, nil
}

// ParseDateParam accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day, up to 23:59:59. An empty value yields nil.
func ParseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD or RFC 3339")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}
