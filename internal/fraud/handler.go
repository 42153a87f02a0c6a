package fraud

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/pagination"
)

// Handler serves fraud alert endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new fraud alert handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListAlerts returns the caller's fraud alerts
// GET /api/v1/fraud/alerts?resolved=false&severity=HIGH&limit=20&offset=0
func (h *Handler) ListAlerts(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters := &AlertFilters{}
	if v := c.Query("resolved"); v != "" {
		resolved, err := strconv.ParseBool(v)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "resolved must be true or false")
			return
		}
		filters.Resolved = &resolved
	}
	if v := c.Query("severity"); v != "" {
		severity, ok := ParseRiskLevel(v)
		if !ok {
			common.ErrorResponse(c, http.StatusBadRequest, "severity must be one of LOW, MEDIUM, HIGH")
			return
		}
		filters.Severity = &severity
	}

	params := pagination.ParseParams(c)

	alerts, total, err := h.service.ListAlerts(c.Request.Context(), userID, filters, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list fraud alerts")
		return
	}

	common.SuccessResponseWithMeta(c, alerts, pagination.BuildMeta(params.Limit, params.Offset, int64(total)))
}

// ResolveAlert marks one of the caller's alerts resolved
// PUT /api/v1/fraud/alerts/:id/resolve
func (h *Handler) ResolveAlert(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, err := h.service.ResolveAlert(c.Request.Context(), userID, alertID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to resolve fraud alert")
		return
	}

	common.SuccessResponse(c, alert)
}

// RegisterRoutes registers fraud alert routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/fraud/alerts")
	{
		alerts.GET("", h.ListAlerts)
		alerts.PUT("/:id/resolve", h.ResolveAlert)
	}
}
