package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type stubChecker struct {
	revoked map[string]bool
	err     error
}

func (s *stubChecker) IsRevoked(_ context.Context, token string) (bool, error) {
	return s.revoked[token], s.err
}

func setupMiddlewareTest(checker RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, checker)
}

func generateTestToken(t *testing.T, userID uint, role string, expiry time.Duration) string {
	t.Helper()
	token, err := util.GenerateToken(userID, "cook@example.com", role, testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func identityHandler(c *gin.Context) {
	userID, ok := GetUserID(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": ok,
		"user_id":       userID,
		"superuser":     IsSuperuser(c),
	})
}

func perform(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	token := generateTestToken(t, 7, "user", time.Hour)
	expired := generateTestToken(t, 7, "user", -time.Minute)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "Token scheme", header: "Token " + token, wantStatus: http.StatusOK},
		{name: "Bearer scheme", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "Lowercase scheme", header: "token " + token, wantStatus: http.StatusOK},
		{name: "No header", wantStatus: http.StatusUnauthorized, wantError: "Authentication credentials were not provided."},
		{name: "Unknown scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized, wantError: "Invalid token."},
		{name: "Missing token", header: "Token", wantStatus: http.StatusUnauthorized, wantError: "Invalid token."},
		{name: "Garbage token", header: "Token abc.def.ghi", wantStatus: http.StatusUnauthorized, wantError: "Invalid token."},
		{name: "Expired token", header: "Token " + expired, wantStatus: http.StatusUnauthorized, wantError: "Token has expired."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.GET("/test", auth.Authenticate(), identityHandler)

			w := perform(router, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["errors"])
				return
			}
			assert.Equal(t, float64(7), body["user_id"])
			assert.Equal(t, false, body["superuser"])
		})
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	token := generateTestToken(t, 1, "user", time.Hour)
	router, auth := setupMiddlewareTest(&stubChecker{revoked: map[string]bool{token: true}})
	router.GET("/test", auth.Authenticate(), identityHandler)

	w := perform(router, "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RevocationCheckFails(t *testing.T) {
	token := generateTestToken(t, 1, "user", time.Hour)
	router, auth := setupMiddlewareTest(&stubChecker{err: errors.New("redis down")})
	router.GET("/test", auth.Authenticate(), identityHandler)

	w := perform(router, "Token "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	token := generateTestToken(t, 3, "admin", time.Hour)
	router, auth := setupMiddlewareTest(nil)
	router.GET("/test", auth.OptionalAuthenticate(), identityHandler)

	for _, header := range []string{"", "Token broken", "Basic xyz"} {
		w := perform(router, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"authenticated":false,"user_id":0,"superuser":false}`, w.Body.String(), header)
	}

	w := perform(router, "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true,"user_id":3,"superuser":true}`, w.Body.String())
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	router.GET("/test", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), identityHandler)

	w := perform(router, "Token "+generateTestToken(t, 1, "user", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(router, "Token "+generateTestToken(t, 2, "admin", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetToken(t *testing.T) {
	token := generateTestToken(t, 5, "user", time.Hour)
	router, auth := setupMiddlewareTest(nil)
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		raw, claims, ok := GetToken(c)
		require.True(t, ok)
		assert.Equal(t, token, raw)
		assert.Equal(t, uint(5), claims.UserID)
		c.Status(http.StatusNoContent)
	})

	w := perform(router, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
