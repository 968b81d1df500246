package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(c *gin.Context) {
	if h.statsProvider == nil {
		writeError(c, http.StatusServiceUnavailable, "stats_unavailable", ErrNoStats)
		return
	}
	c.JSON(http.StatusOK, h.statsProvider.Stats())
}
