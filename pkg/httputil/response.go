package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

// StatusOf maps an error to the HTTP status it should be reported with.
func StatusOf(err error) int {
	if appErr, ok := errors.As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// RespondWithError sends an error response. Internal errors are logged
// and reported with a generic message.
func RespondWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	message := "internal server error"

	if appErr, ok := errors.As(err); ok && status != http.StatusInternalServerError {
		message = appErr.Message
	} else {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, NewErrorResponse(message))
}
