package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

const requestIDHeader = "X-Request-ID"

func CORS(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Requested-With", requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return cors.New(config)
}

// RequestLogger tags each request with an id and logs its outcome.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))

		c.Next()

		log.Info(c.Request.Context(), "%s %s %d %s", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
