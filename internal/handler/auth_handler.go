package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/educontrol/educontrol-api/internal/middleware"
	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/internal/service"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
	"github.com/educontrol/educontrol-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	auth authService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Log in with a username or matricula
// @Tags Auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Me godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Session(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	session := models.SessionInfo{
		ID:        claims.UserID,
		Name:      claims.Name,
		Role:      claims.Role,
		Kind:      claims.Kind,
		Matricula: claims.Matricula,
	}
	landing, redirect := service.Landing(session)
	response.JSON(c, http.StatusOK, gin.H{
		"user":       session,
		"landing":    landing,
		"redirect":   redirect,
		"expires_at": claims.ExpiresAt,
	})
}
