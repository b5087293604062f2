package handlers

import (
	"net/http"

	"artisthub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger from the Gin context, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// respondError logs a failed request and writes the mapped error response.
func respondError(c *gin.Context, msg string, err error) {
	getLogger(c).Warn(msg, zap.Error(err))
	utils.RespondError(c, err)
}

// bindJSON decodes the body into dst and reports a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request body.", err.Error())
		return false
	}
	return true
}
