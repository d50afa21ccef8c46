// Package http exposes the JSON API for triggering and observing
// import runs.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrivero/blogsync/internal/config"
	"github.com/mrivero/blogsync/internal/database"
	"github.com/mrivero/blogsync/internal/scheduler"
	"github.com/mrivero/blogsync/internal/tasks"
)

// RouterConfig carries the dependencies for the HTTP surface.
type RouterConfig struct {
	DB         *database.Database
	TaskClient *tasks.Client
	Scheduler  *scheduler.WordPressSyncScheduler
	WordPress  config.WordPress
	Version    string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.DB, cfg.Version)
	router.GET("/health", healthController.Status)

	importController := NewImportController(cfg.TaskClient, cfg.Scheduler, cfg.WordPress)
	statsController := NewStatsController(cfg.DB)

	api := router.Group("/api")
	{
		api.POST("/import", importController.StartImport)
		api.GET("/import/status", importController.SyncStatus)
		api.GET("/tasks/:id", importController.TaskStatus)
		api.GET("/stats", statsController.Stats)
	}

	return router
}
