package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awaken-dev/awaken/pkg/metrics"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler serves liveness and Prometheus exposition.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// HandleMetrics handles GET /metrics using the service registry.
func (h *HealthHandler) HandleMetrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
