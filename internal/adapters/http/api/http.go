// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awaken-dev/awaken/pkg/awaken"
	"github.com/awaken-dev/awaken/pkg/logger"
)

// TextProvider supplies the body of the index route.
type TextProvider func() string

// StatsProvider exposes runtime statistics for GET /stats.
type StatsProvider interface {
	Stats() map[string]any
}

// Server wires HTTP routes for the API.
type Server struct {
	log           logger.Logger
	indexHandler  *IndexHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates the API server. A nil text provider falls back to the
// shared awaken.IndexText.
func NewServer(text TextProvider, stats StatsProvider, log logger.Logger) *Server {
	if text == nil {
		text = awaken.IndexText
	}
	return &Server{
		log:           log,
		indexHandler:  NewIndexHandler(text),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(stats),
	}
}

// NewEngine returns a gin engine with the middleware chain every route shares.
func (s *Server) NewEngine() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		RequestIDMiddleware(),
		MetricsMiddleware(),
		AccessLogMiddleware(s.log),
		RecoveryMiddleware(s.log),
	)
	return engine
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r gin.IRoutes) {
	if r == nil {
		panic("router is nil")
	}

	r.GET("/", s.indexHandler.HandleIndex)
	r.HEAD("/", s.indexHandler.HandleIndex)
	r.GET("/healthz", s.healthHandler.HandleHealth)
	r.GET("/metrics", s.healthHandler.HandleMetrics)
	r.GET("/stats", s.statsHandler.HandleStats)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: msg})
}
