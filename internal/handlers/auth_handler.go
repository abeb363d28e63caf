package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/services"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// AuthResponse is returned by login, reactivate and refresh.
type AuthResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	models.TokenPair
}

// @Summary      Register
// @Description  Creates a member account and sends a welcome email.
// @Tags         Auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Account data"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.FromContext(c.Request.Context(), nil).Info().Int64("user_id", user.ID).Msg("[auth][register] account created")
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. You can now log in.", "user": user})
}

// @Summary      Log in
// @Description  Returns a short-lived access JWT and a rotating refresh token.
// @Tags         Auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, pair, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Message: "Login successful", User: user, TokenPair: *pair})
}

// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new pair. The presented token is invalidated.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	pair, err := h.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Message: "Token refreshed", TokenPair: *pair})
}

// @Summary      Reactivate a deleted account
// @Tags         Auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.ReactivateRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /auth/reactivate [post]
func (h *AuthHandler) Reactivate(c *gin.Context) {
	var req models.ReactivateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, pair, err := h.userService.Reactivate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Message: "Account reactivated successfully", User: user, TokenPair: *pair})
}
