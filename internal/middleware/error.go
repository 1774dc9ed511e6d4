package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/receipt-chef/backend/internal/service"
	"github.com/pageza/receipt-chef/backend/internal/types"
)

// StatusFor maps a request error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case service.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the JSON error response for err
func ErrorBody(err error) types.ErrorResponse {
	var up *service.UpstreamError
	if errors.As(err, &up) {
		return types.ErrorResponse{Error: up.Message, Message: up.Detail()}
	}
	if service.IsValidation(err) || service.IsNotFound(err) {
		return types.ErrorResponse{Error: err.Error()}
	}
	return types.ErrorResponse{Error: "Internal Server Error"}
}

// ErrorHandler is a middleware that logs errors and returns a JSON error response.
// Handlers report failures with c.Error and return without writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ErrorHandler] panic: %v", rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[ErrorHandler] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.AbortWithStatusJSON(status, ErrorBody(err))
	}
}
