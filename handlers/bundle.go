package handlers

import (
	"net/http"

	"artisthub/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Auth    *AuthHandler
	Artists *ProviderHandler
	Orders  *OrderHandler
	Admin   *AdminHandler
	Health  *HealthHandler
}

// HealthHandler reports the latest health snapshot of the backing services.
type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

// HealthCheckHandler handles GET /health.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := h.Monitor.Check(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
