package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nhatro_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ModerationTransitions counts moderation state transitions by entity and action.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nhatro_moderation_transitions_total",
		Help: "Total number of moderation transitions by entity and action",
	}, []string{"entity", "action"})
)

// InitMetrics creates the Prometheus HTTP metrics collector for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
