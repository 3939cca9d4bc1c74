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
		Name: "darkbin_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// BackupRuns counts snapshot export attempts by outcome.
	BackupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darkbin_backup_runs_total",
		Help: "Total number of paste snapshot export runs",
	}, []string{"status"})

	// ExpiredSwept counts pastes removed by the expiry sweep.
	ExpiredSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "darkbin_expired_pastes_swept_total",
		Help: "Total number of expired pastes removed by the sweep",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
