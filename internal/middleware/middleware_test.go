package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxera/internal/authz"
	"luxera/internal/logger"
	"luxera/internal/models"
	"luxera/internal/utils"
)

var secret = []byte("mw-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, userID int64, role string, ttl time.Duration) string {
	t.Helper()
	tok, _, err := utils.IssueAccessToken(secret, userID, role, ttl, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(CtxUserID), "role": c.GetString(CtxRole)})
	})
	return r
}

func do(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := echoRouter(AuthMiddleware(secret))

	w := do(r, bearer(t, 7, authz.RoleMember, time.Minute))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"member"}`, w.Body.String())

	for name, h := range map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"empty":      "Bearer  ",
		"garbage":    "Bearer not-a-jwt",
		"expired":    bearer(t, 7, authz.RoleMember, -time.Hour),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(r, h).Code)
		})
	}

	other, _, err := utils.IssueAccessToken([]byte("other"), 7, authz.RoleMember, time.Minute, time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+other).Code)
}

func TestRequireRoles(t *testing.T) {
	r := echoRouter(AuthMiddleware(secret), RequireRoles(authz.RoleAdmin))

	assert.Equal(t, http.StatusOK, do(r, bearer(t, 1, authz.RoleAdmin, time.Minute)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, bearer(t, 2, authz.RoleMember, time.Minute)).Code)

	bare := echoRouter(RequireRoles(authz.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(bare, "").Code)
}

type lookupFunc func(ctx context.Context, id int64) (*models.User, error)

func (f lookupFunc) GetUserByID(ctx context.Context, id int64) (*models.User, error) { return f(ctx, id) }

func TestActiveAccount(t *testing.T) {
	accounts := map[int64]*models.User{
		1: {ID: 1, Role: authz.RoleAdmin},
		2: {ID: 2, Role: authz.RoleBlocked},
		3: {ID: 3, Role: authz.RoleMember, IsDeleted: true},
		4: {ID: 4, Role: authz.RoleMember},
	}
	lookup := lookupFunc(func(_ context.Context, id int64) (*models.User, error) {
		if u, ok := accounts[id]; ok {
			return u, nil
		}
		return nil, errors.New("not found")
	})
	r := echoRouter(AuthMiddleware(secret), ActiveAccount(lookup))

	assert.Equal(t, http.StatusOK, do(r, bearer(t, 1, authz.RoleAdmin, time.Minute)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, bearer(t, 2, authz.RoleMember, time.Minute)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, bearer(t, 3, authz.RoleMember, time.Minute)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, bearer(t, 99, authz.RoleMember, time.Minute)).Code)

	// a demoted admin loses admin routes right away
	w := do(r, bearer(t, 4, authz.RoleAdmin, time.Minute))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":4,"role":"member"}`, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/x", func(c *gin.Context) {
		logger.FromContext(c.Request.Context(), nil).Info().Msg("inside handler")
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logger.Nop()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
