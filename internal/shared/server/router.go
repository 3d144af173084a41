package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/shared/config"
	"ats-backend/internal/shared/server/middleware"
	"ats-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by feature handlers whose routes need no
// extra middleware.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// LimitedRegistrar is implemented by handlers whose LLM-backed routes take a
// rate-limit middleware.
type LimitedRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc)
}

// Deps carries the feature handlers the router mounts. Construction of
// services lives in the bootstrap package so the router stays wiring-only.
type Deps struct {
	Users    RouteRegistrar
	Google   RouteRegistrar
	Analyses LimitedRegistrar
	Rewrite  LimitedRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	deps.Users.RegisterRoutes(api)
	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}

	// Analyze and rewrite sit in front of the local LLM; keep one caller
	// from monopolizing it.
	limiter := middleware.NewRateLimiter(nil)
	limit := middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 0.2, Burst: 3})
	deps.Analyses.RegisterRoutes(api, limit)
	deps.Rewrite.RegisterRoutes(api, limit)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
