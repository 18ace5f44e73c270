package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards template management and selection debugging. An empty key
// leaves them open (local development).
func AdminKey(required string, logger zerolog.Logger) gin.HandlerFunc {
	want := []byte(required)
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(AdminKeyHeader)), want) == 1 {
			c.Next()
			return
		}
		logger.Warn().
			Str("request_id", c.GetString(RequestIDHeader)).
			Str("route", c.FullPath()).
			Str("client_ip", c.ClientIP()).
			Msg("admin route rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid " + AdminKeyHeader + " header",
			},
		})
	}
}
