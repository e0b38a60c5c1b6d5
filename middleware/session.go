package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"neoncut/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the anonymous session id in both directions.
	SessionHeader = "X-Session-ID"
	ownerKey      = "owner"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// SessionOwner resolves the booking owner for the request: the JWT subject
// when a bearer token is sent, else the X-Session-ID header, else a freshly
// issued id. The owner is always echoed back in X-Session-ID.
func SessionOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); auth != "" {
			if !strings.HasPrefix(auth, "Bearer ") {
				c.Abort()
				utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
				return
			}
			sub, err := utils.ExtractIDFromToken(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				zap.L().Debug("rejected bearer token", zap.Error(err))
				c.Abort()
				utils.JSONError(c, http.StatusUnauthorized, "Invalid token", "")
				return
			}
			c.Header(SessionHeader, sub)
			c.Set(ownerKey, sub)
			c.Next()
			return
		}

		owner := strings.TrimSpace(c.GetHeader(SessionHeader))
		if owner != "" && !sessionIDPattern.MatchString(owner) {
			c.Abort()
			utils.JSONError(c, http.StatusBadRequest, "Invalid session id", SessionHeader)
			return
		}
		if owner == "" {
			owner = uuid.New().String()
		}
		c.Header(SessionHeader, owner)
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// Owner returns the owner resolved by SessionOwner.
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}
