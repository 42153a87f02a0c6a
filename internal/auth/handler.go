package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Signup handles account registration
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	user, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "registration failed")
		return
	}

	common.CreatedResponse(c, user)
}

// Login handles credential exchange for a token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "login failed")
		return
	}

	common.SuccessResponse(c, resp)
}

// Me returns the caller's profile
func (h *Handler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get profile")
		return
	}

	common.SuccessResponse(c, user)
}

// RegisterPublicRoutes mounts signup and login, which need no token
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts routes that require an authenticated caller
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}
