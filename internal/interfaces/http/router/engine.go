package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig configures the shared middleware stack
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Logger  *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// NewEngine creates a gin engine with the middleware stack applied in order:
// request id, panic recovery, tracing, request logging, metrics, security
// headers, CORS.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	if cfg.Meter != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	}
	engine.Use(middleware.Secure())
	engine.Use(cors.New(corsConfig(cfg.HTTP)))

	return engine
}

// corsConfig builds the CORS policy. With no configured origins every
// cross-origin request is refused; "*" allows any origin.
func corsConfig(cfg config.HTTPConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     cfg.CORSAllowMethods,
		AllowHeaders:     append([]string{middleware.CartSessionHeader, middleware.RequestIDHeader}, cfg.CORSAllowHeaders...),
		ExposeHeaders:    []string{middleware.RequestIDHeader, middleware.CartSessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			corsCfg.AllowOriginFunc = func(string) bool { return true }
			return corsCfg
		}
	}
	if len(cfg.CORSAllowOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return false }
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	return corsCfg
}
