package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *sqlx.DB and by the redis client adapter.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	checks  map[string]Pinger
	metrics gin.HandlerFunc
}

// NewHandler reports ready only when every named dependency answers a ping.
func NewHandler(checks map[string]Pinger, metrics gin.HandlerFunc) *Handler {
	return &Handler{checks: checks, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
		if h.metrics != nil {
			health.GET("/metrics", h.metrics)
		}
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"reason": name + " unavailable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
