package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luxera/internal/logger"
	"luxera/internal/session"
)

// Pinger is satisfied by *sqlx.DB and *session.Manager.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db       Pinger
	sessions *session.Manager
}

func NewSystemHandler(db Pinger, sessions *session.Manager) *SystemHandler {
	return &SystemHandler{db: db, sessions: sessions}
}

// @Summary      Pop the flash message
// @Description  Returns and clears the one-shot message left by the last redirect-style outcome.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /flash [get]
func (h *SystemHandler) Flash(c *gin.Context) {
	sess := session.FromGin(c)
	msg := sess.PopFlash()
	if msg != "" {
		if err := h.sessions.Save(c, sess); err != nil {
			logger.FromContext(c.Request.Context(), nil).Warn().Err(err).Msg("[flash] session save failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"flash": msg})
}

// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /healthz [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok", "sessions": "ok"}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx, nil).Error().Err(err).Msg("[health] database ping failed")
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if err := h.sessions.PingContext(ctx); err != nil {
		logger.FromContext(ctx, nil).Error().Err(err).Msg("[health] session store ping failed")
		status["sessions"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
