package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusnet/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rejectAll struct{}

func (rejectAll) ParseToken(string) (uint, error) { return 0, errors.New("invalid") }

func (rejectAll) RoleOf(context.Context, uint) (string, error) { return "", errors.New("unreachable") }

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{
		Log:            zap.NewNop(),
		Tokens:         rejectAll{},
		Roles:          rejectAll{},
		Users:          handler.NewUserHandler(nil, nil),
		Relations:      handler.NewRelationHandler(nil),
		Posts:          handler.NewPostHandler(nil, nil),
		Admin:          handler.NewAdminHandler(nil),
		Forums:         handler.NewForumHandler(nil),
		Events:         handler.NewEventHandler(nil),
		AllowedOrigins: []string{"https://campus.edu"},
		RequestTimeout: time.Second,
	})
}

func TestRouter_Ping(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_KeepsIncomingRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	engine := newTestEngine()
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/users/2/request"},
		{http.MethodDelete, "/api/v1/users/2/friend"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodPost, "/api/v1/posts/1/like"},
		{http.MethodGet, "/api/v1/posts/saved"},
		{http.MethodGet, "/api/v1/admin/reports"},
		{http.MethodGet, "/api/v1/users/me/events"},
		{http.MethodPost, "/api/v1/forums/1/posts"},
		{http.MethodPost, "/api/v1/forums/posts/1/like"},
		{http.MethodPost, "/api/v1/admin/forums"},
	}

	for _, r := range routes {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
	}
}

func TestRouter_CORS(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	req.Header.Set("Origin", "https://campus.edu")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://campus.edu", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(timeout(time.Minute))

	var deadline time.Time
	var ok bool
	r.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(recovery(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
