package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthcheck reports process, datastore and cache liveness.
func (api *API) healthcheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]HealthChecker{
		"database": api.health,
		"redis":    api.cacheHealth,
	}

	for name, check := range checks {
		if check == nil {
			continue
		}
		if err := check.Health(ctx); err != nil {
			api.log.ErrorWithErr("healthcheck failed: "+name, err)
			c.JSON(http.StatusServiceUnavailable, errorResponse{
				StatusCode: http.StatusServiceUnavailable,
				Message:    "service unhealthy",
				Success:    false,
				Errors:     []string{},
			})
			return
		}
	}

	respondOK(c, gin.H{"status": "ok"}, "healthcheck passed")
}
