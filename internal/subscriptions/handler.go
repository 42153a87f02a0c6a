package subscriptions

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
)

// Handler handles HTTP requests for subscriptions
type Handler struct {
	service *Service
}

// NewHandler creates a new subscription handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListSubscriptions returns the stored subscriptions
// GET /api/v1/subscriptions
func (h *Handler) ListSubscriptions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	subs, err := h.service.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list subscriptions")
		return
	}

	common.SuccessResponse(c, subs)
}

// DetectSubscriptions re-runs detection over the caller's history
// POST /api/v1/subscriptions/detect
func (h *Handler) DetectSubscriptions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	subs, err := h.service.DetectSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to detect subscriptions")
		return
	}

	common.SuccessResponse(c, subs)
}

// DueSoon lists ACTIVE subscriptions due within the window
// GET /api/v1/subscriptions/due-soon?days=7
func (h *Handler) DueSoon(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultDueSoonDays)))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "days must be an integer")
		return
	}

	subs, err := h.service.FindDueSoon(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err, "failed to list due subscriptions")
		return
	}

	common.SuccessResponse(c, subs)
}

// IgnoreSubscription marks a subscription IGNORED
// PUT /api/v1/subscriptions/:id/ignore
func (h *Handler) IgnoreSubscription(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	subID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid subscription id")
		return
	}

	sub, err := h.service.IgnoreSubscription(c.Request.Context(), userID, subID)
	if err != nil {
		respondError(c, err, "failed to ignore subscription")
		return
	}

	common.SuccessResponse(c, sub)
}

// RegisterRoutes registers subscription routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/subscriptions")
	{
		subs.GET("", h.ListSubscriptions)
		subs.POST("/detect", h.DetectSubscriptions)
		subs.GET("/due-soon", h.DueSoon)
		subs.PUT("/:id/ignore", h.IgnoreSubscription)
	}
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
