package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awaken-dev/awaken/pkg/metrics"
)

// IndexHandler serves the greeting at the root path.
type IndexHandler struct {
	text TextProvider
}

// NewIndexHandler creates an index handler backed by text.
func NewIndexHandler(text TextProvider) *IndexHandler {
	return &IndexHandler{text: text}
}

// HandleIndex handles GET / and HEAD /. net/http drops the body for HEAD.
func (h *IndexHandler) HandleIndex(c *gin.Context) {
	c.String(http.StatusOK, h.text())
	if c.Request.Method == http.MethodGet {
		metrics.RecordGreetingServed()
	}
}
