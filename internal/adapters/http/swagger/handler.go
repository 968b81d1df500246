// Package swagger serves the embedded OpenAPI document.
package swagger

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentType is sent with the OpenAPI document.
const ContentType = "application/yaml; charset=utf-8"

// Register attaches the OpenAPI route to r.
//
//	GET /openapi.yaml -> embedded OpenAPI spec
func Register(_ context.Context, r gin.IRoutes) {
	if r == nil {
		panic("router is nil")
	}

	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, ContentType, OpenAPI)
	})
}
