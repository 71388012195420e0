package middleware

import (
	"crypto/subtle"
	"net/http"

	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

var errInvalidAPIKey = errs.New("invalid api key")

type AuthMiddleware struct {
	cfg config.AuthConfig
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg.Auth}
}

// RequireAPIKey gates the write surface. When no key is configured the check
// is skipped so local development works without credentials.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return requireKey(m.cfg.APIKey)
}

// RequireAdminKey gates the operator surface (resource admin, cache bypass,
// maintenance flag).
func (m *AuthMiddleware) RequireAdminKey() gin.HandlerFunc {
	return requireKey(m.cfg.AdminAPIKey)
}

func requireKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, errInvalidAPIKey,
				httperr.CodeUnauthorized, "Invalid or missing API key", nil)
			return
		}
		c.Next()
	}
}
