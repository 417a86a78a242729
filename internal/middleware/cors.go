package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cuisinecraft/engine/internal/config"
)

// CORS applies the configured cross-origin policy to every route.
func CORS(cfg *config.Config) gin.HandlerFunc {
	policy := cors.Config{
		AllowOrigins:     cfg.Security.CORS.AllowedOrigins,
		AllowMethods:     cfg.Security.CORS.AllowedMethods,
		AllowHeaders:     cfg.Security.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(policy)
}
