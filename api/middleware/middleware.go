// Package middleware provides API key authentication and rate limiting.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/mediascout/models"
)

// apiKeyContext is the gin context key holding the authenticated key.
const apiKeyContext = "api_key"

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}
