package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTokens map[string]uint

func (f fakeTokens) ParseToken(token string) (uint, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type fakeRoles map[uint]string

func (f fakeRoles) RoleOf(_ context.Context, userID uint) (string, error) {
	role, ok := f[userID]
	if !ok {
		return "", apperrors.NotFound("user not found")
	}
	return role, nil
}

func newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(middleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	r.GET("/", handlers...)
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(fakeTokens{"good": 7}))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Basic good").Code)

	w := do(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newRouter(OptionalAuthMiddleware(fakeTokens{"good": 7}))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = do(r, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = do(r, "Bearer good")
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	tokens := fakeTokens{"admin": 1, "user": 2, "ghost": 3}
	roles := fakeRoles{1: models.RoleAdmin, 2: models.RoleUser}
	r := newRouter(AuthMiddleware(tokens), AdminMiddleware(roles))

	assert.Equal(t, http.StatusOK, do(r, "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer user").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "Bearer ghost").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
}
