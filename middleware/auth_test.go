package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbduDark/MobileLinesManager/config"
)

func signToken(t *testing.T, secret string, userID uint, role string) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestRouter(cfg *config.Config, extra ...gin.HandlerFunc) (*gin.Engine, *struct {
	ID   *uint
	Role string
}) {
	gin.SetMode(gin.TestMode)
	seen := &struct {
		ID   *uint
		Role string
	}{}

	handlers := append([]gin.HandlerFunc{AuthRequired(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		seen.ID = ActorID(c)
		seen.Role = Role(c)
		c.Status(http.StatusOK)
	})

	router := gin.New()
	router.GET("/ping", handlers...)
	return router, seen
}

func TestAuthRequiredSetsActorIdentity(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router, seen := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, 7, "Manager"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen.ID)
	assert.Equal(t, uint(7), *seen.ID)
	assert.Equal(t, "Manager", seen.Role)
}

func TestAuthRequiredRejectsBadTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router, _ := newTestRouter(cfg)

	// No Authorization header.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with another secret.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", 1, "Admin"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router, _ := newTestRouter(cfg, RequireRoles("Admin", "Manager"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, 2, "Worker"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, 3, "Admin"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
