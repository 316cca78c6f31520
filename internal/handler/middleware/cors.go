package middleware

import (
	"log/slog"
	"slices"

	"tour-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always exposes X-Request-ID so browser clients can quote
// it when reporting a failed booking.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := slices.Clone(cfg.ExposeHeaders)
	if !slices.Contains(expose, requestIDHeader) {
		expose = append(expose, requestIDHeader)
	}

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "origins", cfg.AllowOrigins, "expose", expose)
	return cors.New(corsCfg)
}
