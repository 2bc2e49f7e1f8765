package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

const DefaultMaxBodySize int64 = 1 << 20

// SizeLimit rejects bodies that declare more than max bytes and caps the
// reader for those that do not declare a length.
func SizeLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		max = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.NewErrorResponse("request body too large"))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
