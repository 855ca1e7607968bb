package middleware

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/logger"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/metrics"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/set"
	"github.com/gin-gonic/gin"
)

var (
	reqHeadersToLog *set.ThreadSafeSet
)

func InitHTTPMiddleware() {
	reqHeadersToLog = set.NewThreadSafeSet("user-agent", "x-request-id")
}

// Telemetry logs each request and publishes latency/count metrics
// tagged with route and status code.
func Telemetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestHeaders, _ := json.Marshal(filterHTTPHeaders(c))

		c.Next()

		statusCode := c.Writer.Status()
		responseTime := time.Since(startTime)

		logVariables := []string{
			c.Request.Method + " " + c.FullPath(),
			strconv.Itoa(statusCode),
			responseTime.String(),
			string(requestHeaders),
		}
		if statusCode >= 500 {
			logger.Error(strings.Join(logVariables, " | "), nil)
		} else {
			logger.Info(strings.Join(logVariables, " | "))
		}

		tags := []string{"api:" + c.FullPath(), "status:" + strconv.Itoa(statusCode)}
		metrics.Timing("pricer.router.api.request.latency", responseTime, tags)
		metrics.Count("pricer.router.api.request.total", 1, tags)
	}
}

func filterHTTPHeaders(c *gin.Context) map[string][]string {
	filteredHeaders := make(map[string][]string)
	if reqHeadersToLog == nil {
		return filteredHeaders
	}
	for k, v := range c.Request.Header {
		if reqHeadersToLog.Contains(strings.ToLower(k)) {
			filteredHeaders[k] = v
		}
	}
	return filteredHeaders
}
