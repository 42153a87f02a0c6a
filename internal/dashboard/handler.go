package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/finsight/internal/transactions"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
)

// Handler serves the dashboard endpoint
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSummary returns aggregated metrics for the caller
// GET /api/v1/dashboard/summary?start_date=2024-01-01&end_date=2024-01-31
func (h *Handler) GetSummary(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, err := transactions.ParseDateParam(c.Query("start_date"), false)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid start_date")
		return
	}
	to, err := transactions.ParseDateParam(c.Query("end_date"), true)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid end_date")
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to build dashboard summary")
		return
	}

	common.SuccessResponse(c, summary)
}

// RegisterRoutes registers dashboard routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/summary", h.GetSummary)
}
