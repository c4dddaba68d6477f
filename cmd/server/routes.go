// Package main provides the college resolver server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alumnibase/college-resolver-go/internal/config"
	"github.com/alumnibase/college-resolver-go/internal/storage"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, a *api, db *storage.DB, registry *prometheus.Registry, cfg *config.Config) {
	// Root endpoint - service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "college-resolver"})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		if !a.svc.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "resolution index not built",
			})
			return
		}
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		records, keys, groups := a.svc.Stats()

		payload := gin.H{
			"status":   "ready",
			"database": "connected",
			"index": gin.H{
				"records":          records,
				"keys":             keys,
				"canonical_groups": groups,
			},
		}
		if mappingCount, err := db.CountMappings(c.Request.Context()); err != nil {
			a.log.WithError(err).Debug("Mapping count unavailable for readiness payload")
		} else {
			payload["mappings"] = mappingCount
		}

		c.JSON(http.StatusOK, payload)
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Resolution API
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/colleges/resolve", a.handleResolve)
		apiGroup.GET("/colleges/search", a.handleSearch)

		apiGroup.GET("/mappings", a.handleListMappings)
		apiGroup.PUT("/mappings", a.handleSaveMapping)
		apiGroup.DELETE("/mappings", a.handleDeleteMapping)
	}

	// Prometheus metrics endpoint, behind basic auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
