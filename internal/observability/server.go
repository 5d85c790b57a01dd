package observability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRouter builds the gin engine serving the agent's observability
// surface: liveness plus the prometheus scrape endpoint.
func MetricsRouter(app string, started time.Time) *gin.Engine {
	RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(started).String(),
			"component": app,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
