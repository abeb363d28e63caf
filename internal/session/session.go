package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"luxera/internal/logger"
	"luxera/internal/models"
)

const ctxKey = "luxera.session"

// Session is the server-side state behind the session cookie.
type Session struct {
	ID        string            `json:"-"`
	Reset     models.ResetState `json:"reset"`
	Flash     string            `json:"flash,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Reset:     models.IdleReset(),
		CreatedAt: time.Now().UTC(),
	}
}

// PopFlash returns the pending flash message and clears it.
func (s *Session) PopFlash() string {
	f := s.Flash
	s.Flash = ""
	return f
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Manager struct {
	store Store
	opts  Options
	log   *logger.Logger
}

func NewManager(store Store, opts Options, log *logger.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "luxera_session"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: store, opts: opts, log: log.Component("session")}
}

// Middleware loads the session named by the cookie, or starts a fresh one.
// Nothing is written until Save.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(m.opts.CookieName); err == nil && id != "" {
			got, err := m.store.Get(c.Request.Context(), id)
			switch {
			case err == nil:
				sess = got
			case errors.Is(err, ErrNotFound):
			default:
				m.log.Warn().Err(err).Msg("load session failed, starting a new one")
			}
		}
		if sess == nil {
			sess = newSession()
		}
		sess.Reset = sess.Reset.Normalize()
		c.Set(ctxKey, sess)
		c.Next()
	}
}

// FromGin returns the request's session. Handlers mounted without the
// middleware get a throwaway one.
func FromGin(c *gin.Context) *Session {
	if v, ok := c.Get(ctxKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := newSession()
	c.Set(ctxKey, s)
	return s
}

// Save persists the session and (re)sets the cookie. Call before writing
// the response body.
func (m *Manager) Save(c *gin.Context, sess *Session) error {
	if err := m.store.Save(c.Request.Context(), sess, m.opts.TTL); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, sess.ID, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
	return nil
}

// Regenerate moves the session to a fresh id and drops the old one.
func (m *Manager) Regenerate(c *gin.Context, sess *Session) error {
	old := sess.ID
	sess.ID = uuid.NewString()
	if err := m.store.Delete(c.Request.Context(), old); err != nil {
		m.log.Warn().Err(err).Msg("delete old session failed")
	}
	return m.Save(c, sess)
}

func (m *Manager) PingContext(ctx context.Context) error {
	return m.store.Ping(ctx)
}
