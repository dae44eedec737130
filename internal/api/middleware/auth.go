package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MhisterKhing6/shortly/internal/auth"
)

// CallerKey is the key used to store the authenticated caller in the context
const CallerKey = "caller"

// Authenticate middleware validates the bearer token and stores the
// resulting caller identity in the gin context. Requests without a valid
// token are rejected with 401 before reaching any handler.
func Authenticate(logger *slog.Logger, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		caller, err := tokens.ValidateToken(raw)
		if err != nil {
			logger.Warn("Rejected request with invalid token",
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// GetCaller retrieves the authenticated caller from the gin context
func GetCaller(c *gin.Context) (auth.Caller, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return auth.Caller{}, false
	}
	caller, ok := v.(*auth.Caller)
	if !ok {
		return auth.Caller{}, false
	}
	return *caller, true
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
