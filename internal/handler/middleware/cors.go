package middleware

import (
	"log/slog"
	"strings"

	"lounge-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware serves the checkout page. Gateway webhooks are
// server-to-server and bypass it.
func NewCORSMiddleware(cfg config.CORSConfig, skipPrefixes ...string) gin.HandlerFunc {
	handler := cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    append([]string{"Retry-After"}, cfg.ExposeHeaders...),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "skip", skipPrefixes)

	return func(c *gin.Context) {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}
		handler(c)
	}
}
