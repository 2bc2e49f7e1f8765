package router

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	promhandler "github.com/NextGenGk/ayursutra-docter-portal/internal/handler/prometheus"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the resource handlers mounted by the router.
type Handlers struct {
	Health      Handler
	Auth        Handler
	Caregiver   Handler
	Appointment Handler
	Dashboard   Handler
	Patient     Handler
	Receipt     Handler
	Settings    Handler
}

type RouterConfig struct {
	RateLimit   float64
	RateBurst   int
	CORSConfig  middleware.CORSConfig
	Timeout     time.Duration
	MaxBodySize int64
	TLS         bool
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.Authenticator
	metrics  *promhandler.Handler
	handlers Handlers
	config   RouterConfig
}

func NewRouter(auth *middleware.Authenticator, metrics *promhandler.Handler, handlers Handlers, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		metrics:  metrics,
		handlers: handlers,
		config:   config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.TLS)),
		middleware.CORS(config.CORSConfig),
		// promhttp negotiates its own compression.
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/health/metrics"})),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(
		rateLimiter.RateLimit(),
		middleware.Timeout(config.Timeout),
		middleware.SizeLimit(config.MaxBodySize),
	)

	return r
}

func (r *Router) Setup() {
	// The caregiver directory predates the versioned API and stays public.
	r.handlers.Caregiver.RegisterRoutes(r.engine.Group("/api"))

	api := r.engine.Group("/api/v1")
	r.handlers.Health.RegisterRoutes(api)

	api.Use(r.auth.Authenticate())
	r.handlers.Auth.RegisterRoutes(api)

	r.mount(api, "/appointments", "appointments", r.handlers.Appointment)
	r.mount(api, "/dashboard", "dashboard", r.handlers.Dashboard)
	r.mount(api, "/patients", "patients", r.handlers.Patient)
	r.mount(api, "/receipts", "receipts", r.handlers.Receipt)
	r.mount(api, "/settings", "settings", r.handlers.Settings)
}

// mount registers h under path with the caller's identity resolved.
func (r *Router) mount(api *gin.RouterGroup, path, resource string, h Handler) {
	h.RegisterRoutes(api.Group(path, r.auth.ResolveIdentity(resource)))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
