package audit

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/pagination"
)

// Handler serves the caller's audit trail
type Handler struct {
	service *Service
}

// NewHandler creates a new audit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListLogs returns the caller's audit logs
// GET /api/v1/audit-logs?action=RESOLVE_ALERT&limit=20&offset=0
func (h *Handler) ListLogs(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	action := strings.ToUpper(strings.TrimSpace(c.Query("action")))

	logs, total, err := h.service.ListLogs(c.Request.Context(), userID, action, params.Limit, params.Offset)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list audit logs")
		return
	}

	common.SuccessResponseWithMeta(c, logs, pagination.BuildMeta(params.Limit, params.Offset, int64(total)))
}

// RegisterRoutes registers audit routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", h.ListLogs)
}
