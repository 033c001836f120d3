package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser clients from any origin. Idempotency headers
// are allowed in and the replay marker is exposed.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", idempotencyHeader},
		ExposeHeaders:   []string{"Content-Length", replayHeader},
		MaxAge:          12 * time.Hour,
	})
}
