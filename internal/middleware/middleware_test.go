package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interior-design-backend/internal/config"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/middleware"
	"interior-design-backend/internal/redisstore"
)

const secret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func signed(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(&config.Config{SupabaseJWTSecret: secret}))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": userID.String()})
	})
	return router
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router := authRouter(t)
	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := authRouter(t)
	for name, header := range map[string]string{
		"garbage":      "Bearer invalid-token",
		"wrong scheme": "Basic abc",
		"wrong secret": "Bearer " + signed(t, jwt.MapClaims{"sub": uuid.NewString()}, jwt.SigningMethodHS256, []byte("other-secret")),
		"expired": "Bearer " + signed(t, jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		}, jwt.SigningMethodHS256, []byte(secret)),
		"no subject":       "Bearer " + signed(t, jwt.MapClaims{"role": "authenticated"}, jwt.SigningMethodHS256, []byte(secret)),
		"non uuid subject": "Bearer " + signed(t, jwt.MapClaims{"sub": "user-123"}, jwt.SigningMethodHS256, []byte(secret)),
	} {
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := authRouter(t)
	userID := uuid.NewString()
	token := signed(t, jwt.MapClaims{"sub": userID, "exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256, []byte(secret))

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.RequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	generated := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 26)
	assert.Equal(t, generated, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-abc", w.Header().Get(middleware.RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://localhost:5173"}))
	router.POST("/api/v1/designs", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/designs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (redisstore.Decision, error) {
	if f.err != nil {
		return redisstore.Decision{}, f.err
	}
	f.counts[key]++
	n := f.counts[key]
	if n > limit {
		return redisstore.Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond}, nil
	}
	return redisstore.Decision{Allowed: true, Remaining: limit - n}, nil
}

func limitedRouter(limiter middleware.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, c.GetHeader("X-User"))
		c.Next()
	})
	router.POST("/designs", middleware.RateLimit(limiter, logger.Nop(), "generate", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})
	return router
}

func TestRateLimit(t *testing.T) {
	router := limitedRouter(&fakeLimiter{counts: map[string]int{}})

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/designs", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusAccepted, send("alice").Code)
	assert.Equal(t, http.StatusAccepted, send("alice").Code)
	blocked := send("alice")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "2", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusAccepted, send("bob").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	router := limitedRouter(&fakeLimiter{err: errors.New("redis down")})
	req := httptest.NewRequest(http.MethodPost, "/designs", nil)
	req.Header.Set("X-User", "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	router = limitedRouter(nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/designs", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}
