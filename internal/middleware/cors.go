// internal/middleware/cors.go
package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = allowOrigins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Content-Disposition")
	return cors.New(cfg)
}
