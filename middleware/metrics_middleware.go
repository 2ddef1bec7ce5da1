package middleware

import (
	"runtime"
	"strconv"
	"time"

	"api/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware collects HTTP request metrics. Paths are reported as
// route templates so attempt and challenge ids do not blow up label
// cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.RequestInProgress.WithLabelValues(method, path).Inc()

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestCounter.WithLabelValues(status, method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, method, path).Observe(duration)
		metrics.RequestInProgress.WithLabelValues(method, path).Dec()
	}
}

// UpdateSystemMetrics periodically updates system metrics
func UpdateSystemMetrics() {
	go func() {
		for {
			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)

			metrics.MemoryStats.WithLabelValues("alloc").Set(float64(memStats.Alloc))
			metrics.MemoryStats.WithLabelValues("sys").Set(float64(memStats.Sys))
			metrics.MemoryStats.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
			metrics.MemoryStats.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
			metrics.MemoryStats.WithLabelValues("heap_idle").Set(float64(memStats.HeapIdle))
			metrics.MemoryStats.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))

			metrics.GoroutineCount.Set(float64(runtime.NumGoroutine()))

			time.Sleep(15 * time.Second)
		}
	}()
}
