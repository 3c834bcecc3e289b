package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	ContextRequestIDKey = "request_id"
)

// RequestID reuses an incoming X-Request-ID or assigns a new one and logs
// the request outcome under it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		if len(c.Errors) > 0 {
			log.Printf("request %s %s %s failed: %s", id, c.Request.Method, c.FullPath(), c.Errors.String())
			return
		}
		if c.Writer.Status() >= 500 {
			log.Printf("request %s %s %s status=%d took=%s", id, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		}
	}
}
