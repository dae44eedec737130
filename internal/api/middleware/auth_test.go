package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/config"
)

func authTestRouter(tokens *auth.TokenService) (*gin.Engine, *auth.Caller) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	router := gin.New()
	router.Use(CorrelationID())
	router.Use(Authenticate(logger, tokens))

	captured := &auth.Caller{}
	router.GET("/protected", func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if ok {
			*captured = caller
		}
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestAuthenticateMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService(&config.JWTConfig{Secret: "test-secret", Issuer: "shortly-users"})

	t.Run("ValidTokenReachesHandler", func(t *testing.T) {
		router, captured := authTestRouter(tokens)

		caller := auth.Caller{ID: "rider-1", Name: "Kofi", Role: auth.RoleRider, OfficeID: "office-1"}
		token, err := tokens.GenerateToken(caller, time.Hour)
		assert.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, caller, *captured)
	})

	t.Run("MissingHeaderRejected", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	})

	t.Run("MalformedHeaderRejected", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("TokenSignedWithOtherSecretRejected", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		otherTokens := auth.NewTokenService(&config.JWTConfig{Secret: "other-secret", Issuer: "shortly-users"})
		token, err := otherTokens.GenerateToken(auth.Caller{ID: "rider-1", Role: auth.RoleRider}, time.Hour)
		assert.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnsFalseWhenAbsent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetCaller(c)
		assert.False(t, ok)
	})

	t.Run("ReturnsFalseOnWrongType", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CallerKey, "not a caller")
		_, ok := GetCaller(c)
		assert.False(t, ok)
	})
}
