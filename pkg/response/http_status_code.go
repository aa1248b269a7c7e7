package response

import (
	"net/http"

	"election-service/internal/models"

	"github.com/gin-gonic/gin"
)

// Default messages returned when a handler has nothing more specific to say.
var msg = map[int]string{
	http.StatusBadRequest:          "Invalid input data",
	http.StatusUnauthorized:        "Not authorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Resource not found",
	http.StatusTooManyRequests:     "Rate limit exceeded",
	http.StatusInternalServerError: "Server error",
}

// Message returns the default message for a status code.
func Message(code int) string {
	if m, ok := msg[code]; ok {
		return m
	}
	return http.StatusText(code)
}

// Error writes an ErrorResponse. An empty message falls back to Message(code).
func Error(c *gin.Context, code int, message, details string) {
	if message == "" {
		message = Message(code)
	}
	c.JSON(code, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, code int, message, details string) {
	if message == "" {
		message = Message(code)
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: message})
}
