package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"utc-go/internal/config"
	"utc-go/internal/models"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	active map[uint]bool
	err    error
}

func (f fakeAccounts) IsActive(ctx context.Context, userID uint) (bool, error) {
	return f.active[userID], f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newJWT() *utils.JWTManager {
	return utils.NewJWTManager("middleware-secret", "HS256", time.Hour)
}

func issue(t *testing.T, j *utils.JWTManager, id uint, role string) string {
	t.Helper()
	token, err := j.IssueToken(utils.Identity{UserID: id, Email: "u@example.com", Name: "U", Role: role}, 0)
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIdentityFromRequest(t *testing.T) {
	j := newJWT()
	token := issue(t, j, 7, "tester")
	other := issue(t, j, 8, "tester")
	reset, err := j.IssueResetToken(utils.Identity{UserID: 7}, "jti", time.Hour)
	require.NoError(t, err)
	foreign, err := utils.NewJWTManager("another-secret", "HS256", time.Hour).IssueToken(utils.Identity{UserID: 9}, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   uint
	}{
		{name: "bearer header", header: "Bearer " + token, want: 7},
		{name: "lowercase scheme", header: "bearer " + token, want: 7},
		{name: "cookie fallback", cookie: token, want: 7},
		{name: "no credentials"},
		{name: "garbage token", header: "Bearer nope"},
		{name: "wrong scheme falls back to cookie", header: "Basic abc", cookie: token, want: 7},
		{name: "reset token rejected", header: "Bearer " + reset},
		{name: "valid bearer wins over cookie", header: "Bearer " + token, cookie: other, want: 7},
		{name: "invalid bearer falls back to cookie", header: "Bearer nope", cookie: other, want: 8},
		{name: "foreign signature falls back to cookie", header: "Bearer " + foreign, cookie: other, want: 8},
		{name: "reset bearer falls back to cookie", header: "Bearer " + reset, cookie: other, want: 8},
		{name: "both invalid", header: "Bearer nope", cookie: "also-nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}

			identity := IdentityFromRequest(c, j, "token")
			if tt.want == 0 {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, tt.want, identity.UserID)
		})
	}
}

func authRouter(j *utils.JWTManager, accounts AccountChecker) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(j, "token", accounts, quietLogger()), func(c *gin.Context) {
		id, _ := GetUserID(c)
		utils.SuccessResponse(c, id)
	})
	r.GET("/admin", AuthMiddleware(j, "token", accounts, quietLogger()), AdminMiddleware(), func(c *gin.Context) {
		utils.SuccessResponse(c, "ok")
	})
	r.GET("/optional", OptionalAuth(j, "token"), func(c *gin.Context) {
		_, ok := GetIdentity(c)
		utils.SuccessResponse(c, ok)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	j := newJWT()
	accounts := fakeAccounts{active: map[uint]bool{1: true, 2: false}}
	r := authRouter(j, accounts)

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	w = do("/private", issue(t, j, 1, "tester"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w).Data)

	w = do("/private", issue(t, j, 2, "tester"))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "inactive accounts are rejected")

	w = do("/admin", issue(t, j, 1, "tester"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do("/admin", issue(t, j, 1, string(models.RoleAdmin)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Data)

	w = do("/optional", issue(t, j, 1, "tester"))
	assert.Equal(t, true, decode(t, w).Data)
}

func TestAuthMiddlewareLookupFailure(t *testing.T) {
	j := newJWT()
	r := authRouter(j, fakeAccounts{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, j, 1, "tester"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		Origins:          []string{"http://app.test"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization"},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/tasks/1", "/tasks/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/tasks/:id", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	logger := logrus.New()
	var buf strings.Builder
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(LoggerMiddleware(logger))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Contains(t, buf.String(), id)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
