package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request under the [HTTP] component tag used
// across the service logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		line := fmt.Sprintf("[HTTP] %s %s %d %v %s",
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Round(time.Microsecond),
			c.ClientIP(),
		)
		if errs := c.Errors.String(); errs != "" {
			line += " | " + errs
		}
		log.Print(line)
	}
}
