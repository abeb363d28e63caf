package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"luxera/internal/authz"
	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Current account
// @Tags         Account
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  ErrorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	u, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Change password
// @Tags         Account
// @Security     BearerAuth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.ChangePasswordRequest  true  "Passwords"
// @Success      200   {object}  map[string]string
// @Failure      422   {object}  ErrorResponse
// @Router       /me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// @Summary      List accounts
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        role     query     string  false  "member, blocked or admin"
// @Param        deleted  query     bool    false  "Only deleted (true) or only active (false)"
// @Param        page     query     int     false  "Page, from 1"
// @Param        size     query     int     false  "Page size"
// @Success      200      {array}   models.User
// @Failure      400      {object}  ErrorResponse
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	f := models.UserFilter{Role: c.Query("role")}
	if f.Role != "" && !authz.IsKnown(f.Role) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown role"})
		return
	}
	if v := c.Query("deleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid deleted flag"})
			return
		}
		f.Deleted = &b
	}
	f.Limit, f.Offset = pageParams(c)

	users, err := h.service.ListUsers(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Block an account
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id}/block [post]
func (h *UserHandler) Block(c *gin.Context) {
	h.adminAction(c, "blocked", h.service.BlockUser)
}

// @Summary      Unblock an account
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/unblock [post]
func (h *UserHandler) Unblock(c *gin.Context) {
	h.adminAction(c, "unblocked", h.service.UnblockUser)
}

// @Summary      Soft-delete an account
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/delete [post]
func (h *UserHandler) Delete(c *gin.Context) {
	h.adminAction(c, "deleted", h.service.DeleteUser)
}

// @Summary      Restore a deleted account
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/restore [post]
func (h *UserHandler) Restore(c *gin.Context) {
	h.adminAction(c, "restored", h.service.RestoreUser)
}

func (h *UserHandler) adminAction(c *gin.Context, verb string, act func(ctx context.Context, id int64) error) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}
	adminID, _ := getUserAndRole(c)
	if id == adminID {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "You cannot change your own account here"})
		return
	}
	if err := act(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	logger.FromContext(c.Request.Context(), nil).Info().
		Int64("admin_id", adminID).Int64("user_id", id).Str("action", verb).Msg("[admin] account updated")
	c.JSON(http.StatusOK, gin.H{"message": "User " + verb})
}
