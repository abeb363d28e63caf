package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"luxera/internal/middleware"
	"luxera/internal/models"
	"luxera/internal/services"
	"luxera/internal/session"
	"luxera/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ===== stubs =====

type stubResetService struct {
	request func(models.ForgotPasswordRequest) (models.ResetState, error)
	verify  func(models.ResetState, models.VerifyCodeRequest) (models.ResetState, error)
	commit  func(models.ResetState, models.NewPasswordRequest) (models.ResetState, error)
}

func (s *stubResetService) RequestReset(_ context.Context, req models.ForgotPasswordRequest) (models.ResetState, error) {
	return s.request(req)
}

func (s *stubResetService) VerifyCode(_ context.Context, st models.ResetState, req models.VerifyCodeRequest) (models.ResetState, error) {
	return s.verify(st, req)
}

func (s *stubResetService) CommitPassword(_ context.Context, st models.ResetState, req models.NewPasswordRequest) (models.ResetState, error) {
	return s.commit(st, req)
}

// happyResetService behaves like the real flow for one account (id 1) and
// one code.
func happyResetService() *stubResetService {
	return &stubResetService{
		request: func(req models.ForgotPasswordRequest) (models.ResetState, error) {
			return models.PendingReset(1, models.ResetMethod(req.Method)), nil
		},
		verify: func(st models.ResetState, req models.VerifyCodeRequest) (models.ResetState, error) {
			uid, m, ok := st.Pending()
			if !ok {
				return models.IdleReset(), services.ErrNoPendingReset
			}
			if req.Code != "123456" {
				return st, services.ErrInvalidOrExpiredCode
			}
			return models.VerifiedReset(uid, 10, m), nil
		},
		commit: func(st models.ResetState, _ models.NewPasswordRequest) (models.ResetState, error) {
			if _, _, _, ok := st.Verified(); !ok {
				return models.IdleReset(), services.ErrNoPendingReset
			}
			return models.IdleReset(), nil
		},
	}
}

// ===== client =====

type testClient struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *testClient {
	return &testClient{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) do(method, path string, body io.Reader, contentType string, header ...string) *httptest.ResponseRecorder {
	tc.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.h.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		tc.cookies[c.Name] = c
	}
	return w
}

func (tc *testClient) postJSON(path, body string, header ...string) *httptest.ResponseRecorder {
	return tc.do(http.MethodPost, path, strings.NewReader(body), "application/json", header...)
}

func (tc *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return tc.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (tc *testClient) get(path string, header ...string) *httptest.ResponseRecorder {
	return tc.do(http.MethodGet, path, nil, "", header...)
}

func (tc *testClient) sessionID() string {
	if c, ok := tc.cookies["luxera_session"]; ok {
		return c.Value
	}
	return ""
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ===== routers =====

func newSessionRouter(store session.Store) (*gin.Engine, *session.Manager) {
	mgr := session.NewManager(store, session.Options{CookieName: "luxera_session", TTL: time.Hour}, nil)
	r := gin.New()
	r.Use(mgr.Middleware())
	return r, mgr
}

var handlerSecret = []byte("handler-secret")

func authHeader(t *testing.T, userID int64, role string) []string {
	t.Helper()
	tok, _, err := utils.IssueAccessToken(handlerSecret, userID, role, time.Minute, time.Now())
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + tok}
}

func protected(r *gin.Engine) *gin.RouterGroup {
	return r.Group("/", middleware.AuthMiddleware(handlerSecret))
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
