package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/services"
	"luxera/internal/session"
)

// PasswordResetHandler exposes the three reset steps. The reset context
// lives only in the server-side session; the client never sends ids.
type PasswordResetHandler struct {
	service  services.PasswordResetService
	sessions *session.Manager
}

func NewPasswordResetHandler(service services.PasswordResetService, sessions *session.Manager) *PasswordResetHandler {
	return &PasswordResetHandler{service: service, sessions: sessions}
}

// ResetStateResponse tells the page layer which form to show.
type ResetStateResponse struct {
	Message string             `json:"message,omitempty"`
	Stage   models.ResetStage  `json:"stage"`
	Method  models.ResetMethod `json:"method,omitempty"`
	Next    string             `json:"next"`
}

func stateResponse(st models.ResetState, msg string) ResetStateResponse {
	next := "forgot"
	switch st.Stage {
	case models.ResetPendingVerification:
		next = "verify"
	case models.ResetVerified:
		next = "reset"
	}
	return ResetStateResponse{Message: msg, Stage: st.Stage, Method: st.Method, Next: next}
}

// @Summary      Current reset stage
// @Tags         Password
// @Produce      json
// @Success      200  {object}  ResetStateResponse
// @Router       /password/state [get]
func (h *PasswordResetHandler) State(c *gin.Context) {
	sess := session.FromGin(c)
	c.JSON(http.StatusOK, stateResponse(sess.Reset, ""))
}

// @Summary      Request a reset code
// @Description  Sends a 6-digit code by email or SMS. Repeated requests within the cooldown are answered the same way without re-sending.
// @Tags         Password
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.ForgotPasswordRequest  true  "Reset method and identifier"
// @Success      200   {object}  ResetStateResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /password/forgot [post]
func (h *PasswordResetHandler) Forgot(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess := session.FromGin(c)
	state, err := h.service.RequestReset(c.Request.Context(), req)
	if !h.store(c, sess, state, err) {
		return
	}
	c.JSON(http.StatusOK, stateResponse(state, msgCodeSent))
}

// @Summary      Verify the reset code
// @Tags         Password
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.VerifyCodeRequest  true  "Code"
// @Success      200   {object}  ResetStateResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /password/verify [post]
func (h *PasswordResetHandler) Verify(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess := session.FromGin(c)
	state, err := h.service.VerifyCode(c.Request.Context(), sess.Reset, req)
	if !h.store(c, sess, state, err) {
		return
	}
	c.JSON(http.StatusOK, stateResponse(state, msgCodeVerified))
}

// @Summary      Set the new password
// @Description  Consumes the verified code. The session id is rotated on success.
// @Tags         Password
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      models.NewPasswordRequest  true  "New password"
// @Success      200   {object}  ResetStateResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      410   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /password/reset [post]
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	var req models.NewPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess := session.FromGin(c)
	state, err := h.service.CommitPassword(c.Request.Context(), sess.Reset, req)
	if err != nil {
		h.store(c, sess, state, err)
		return
	}

	sess.Reset = state
	sess.Flash = msgPasswordUpdated
	if err := h.sessions.Regenerate(c, sess); err != nil {
		// пароль уже сменён, просто сообщаем клиенту об ошибке сессии
		logger.FromContext(c.Request.Context(), nil).Error().Err(err).Msg("[password-reset] session regenerate failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGeneric})
		return
	}
	c.JSON(http.StatusOK, stateResponse(state, msgPasswordUpdated))
}

// @Summary      Start over
// @Description  Drops the session's reset context. Issued codes stay valid until they expire.
// @Tags         Password
// @Produce      json
// @Success      200  {object}  ResetStateResponse
// @Router       /password/restart [post]
func (h *PasswordResetHandler) Restart(c *gin.Context) {
	sess := session.FromGin(c)
	if !h.store(c, sess, models.IdleReset(), nil) {
		return
	}
	c.JSON(http.StatusOK, stateResponse(sess.Reset, ""))
}

// store saves the returned state (and a flash for redirect-style failures)
// before anything is written. It reports whether the caller should go on
// to write its success body.
func (h *PasswordResetHandler) store(c *gin.Context, sess *session.Session, state models.ResetState, err error) bool {
	sess.Reset = state
	if msg := flashFor(err); msg != "" {
		sess.Flash = msg
	}
	if saveErr := h.sessions.Save(c, sess); saveErr != nil {
		logger.FromContext(c.Request.Context(), nil).Error().Err(saveErr).Msg("[password-reset] session save failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGeneric})
		return false
	}
	if err != nil {
		respondError(c, err)
		return false
	}
	return true
}
