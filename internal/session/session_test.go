package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxera/internal/logger"
	"luxera/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *Manager) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware())
	r.POST("/pending", func(c *gin.Context) {
		sess := FromGin(c)
		sess.Reset = models.PendingReset(7, models.ResetMethodEmail)
		sess.Flash = "hello"
		if err := m.Save(c, sess); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.ID)
	})
	r.POST("/regen", func(c *gin.Context) {
		sess := FromGin(c)
		if err := m.Regenerate(c, sess); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.ID)
	})
	r.GET("/state", func(c *gin.Context) {
		sess := FromGin(c)
		c.JSON(http.StatusOK, gin.H{"stage": sess.Reset.Stage, "flash": sess.PopFlash()})
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "luxera_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestManager_SaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{TTL: time.Hour}, logger.Nop())
	r := newTestRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pending", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, w.Body.String(), cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"stage":"pending_verification","flash":"hello"}`, w.Body.String())
}

func TestManager_UnknownCookieStartsIdle(t *testing.T) {
	m := NewManager(NewMemoryStore(), Options{TTL: time.Hour}, nil)
	r := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&http.Cookie{Name: "luxera_session", Value: "forged"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"stage":"idle","flash":""}`, w.Body.String())
}

func TestManager_Regenerate(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{TTL: time.Hour}, nil)
	r := newTestRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pending", nil))
	oldID := w.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/regen", nil)
	req.AddCookie(sessionCookie(t, w))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	newID := w.Body.String()
	assert.NotEqual(t, oldID, newID)
	_, err := store.Get(context.Background(), oldID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.Get(context.Background(), newID)
	require.NoError(t, err)
	assert.Equal(t, models.ResetPendingVerification, got.Reset.Stage)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	sess := newSession()
	require.NoError(t, store.Save(context.Background(), sess, time.Minute))
	_, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}
