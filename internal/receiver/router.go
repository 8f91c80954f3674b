package receiver

import (
	"payupl/pkg/health"
	"payupl/pkg/logger"
	"payupl/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router mounts the notification endpoint next to probes and metrics.
type Router struct {
	webhookPath    string
	handler        *Handler
	healthRegistry *health.Registry
}

func NewRouter(webhookPath string, handler *Handler, healthRegistry *health.Registry) *Router {
	return &Router{
		webhookPath:    webhookPath,
		handler:        handler,
		healthRegistry: healthRegistry,
	}
}

// NewEngine returns a gin engine with the service middleware chain.
func NewEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		logger.CorrelationMiddleware(),
		logger.RequestLogger(health.LivePath, health.ReadyPath, metrics.Path),
		metrics.GinMiddleware(health.LivePath, health.ReadyPath, metrics.Path),
	)
	return engine
}

func (r *Router) SetUp(engine *gin.Engine) {
	health.Register(engine, r.healthRegistry, health.DefaultTimeout)
	engine.GET(metrics.Path, gin.WrapH(metrics.Handler()))

	engine.POST(r.webhookPath, r.handler.Notify)
}
