package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ternarybob/arbor"
)

var corsMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// CORS allows the configured origins with credentials; "*" allows any.
// With credentials a literal "*" is not honoured by browsers, so the
// request origin and the requested headers are echoed back.
func CORS(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:     corsMethods,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	switch {
	case allowAll:
		conf.AllowOriginFunc = func(string) bool { return true }
	case len(origins) == 0:
		conf.AllowOriginFunc = func(string) bool { return false }
	default:
		conf.AllowOrigins = origins
	}

	handler := cors.New(conf)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handler(c)
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger arbor.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		} else if status >= http.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
