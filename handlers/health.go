package handlers

import (
	"net/http"

	"neoncut/services/booking"
	"neoncut/utils"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health with the last dependency snapshot.
func Health(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.GetHealthStatus()
		healthy := engine.Initialized()
		for _, ok := range status.Redis {
			healthy = healthy && ok
		}
		if status.Mongo != nil {
			healthy = healthy && *status.Mongo
		}

		code, label := http.StatusOK, "ok"
		if !healthy {
			code, label = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{
			"status":   label,
			"message":  "Hi, I'm NeonCut",
			"engine":   engine.Initialized(),
			"sessions": engine.SessionCount(),
			"deps":     status,
		})
	}
}
