package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers the liveness probe route.
type HealthHandler struct {
	BaseHandler
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{BaseHandler: NewBaseHandler()}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "acquire-server",
	})
}
