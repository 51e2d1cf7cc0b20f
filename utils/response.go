package utils

import (
	"net/http"

	"fanlink-backend/apperrors"

	"github.com/gin-gonic/gin"
)

// Response standard structure for API responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendSuccess sends a success response
func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError sends an error response
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

// HandleServiceError translates a service error into the HTTP response.
// Typed errors map to their status and code; anything else is a 500.
func HandleServiceError(c *gin.Context, err error) {
	if ae, ok := apperrors.AsError(err); ok {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": ae.Message, "code": ae.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
