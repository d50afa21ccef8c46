package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrivero/blogsync/internal/config"
	"github.com/mrivero/blogsync/internal/scheduler"
	"github.com/mrivero/blogsync/internal/tasks"
)

// ImportController handles import trigger and status endpoints.
type ImportController struct {
	taskClient *tasks.Client
	scheduler  *scheduler.WordPressSyncScheduler
	wordpress  config.WordPress
}

// NewImportController creates a new ImportController.
func NewImportController(taskClient *tasks.Client, sched *scheduler.WordPressSyncScheduler, wpCfg config.WordPress) *ImportController {
	return &ImportController{
		taskClient: taskClient,
		scheduler:  sched,
		wordpress:  wpCfg,
	}
}

// StartImportRequest is the request body for POST /api/import. Both
// fields are optional and default to the configured page range.
type StartImportRequest struct {
	FromPage int `json:"from_page"`
	Pages    int `json:"pages"`
}

// StartImport handles POST /api/import: enqueues a background import
// of the requested page range.
func (ic *ImportController) StartImport(c *gin.Context) {
	if ic.wordpress.URL == "" {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "WordPress import not configured",
			"message": "Set WORDPRESS_URL, WORDPRESS_USERNAME and WORDPRESS_PASSWORD to enable imports",
		})
		return
	}
	if ic.taskClient == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "task queue is disabled"})
		return
	}

	var req StartImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.FromPage <= 0 {
		req.FromPage = ic.wordpress.FromPage
	}
	if req.Pages <= 0 {
		req.Pages = ic.wordpress.Pages
	}

	task := tasks.ImportPagesTask{FromPage: req.FromPage, Pages: req.Pages}
	ids, err := ic.taskClient.Add(task).Save()
	if err != nil {
		log.Printf("Failed to enqueue import task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start import"})
		return
	}
	log.Printf("Enqueued ImportPagesTask with ID: %s", ids[0])

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":   ids[0],
		"from_page": req.FromPage,
		"pages":     req.Pages,
	})
}

// TaskStatus handles GET /api/tasks/:id.
func (ic *ImportController) TaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task ID is required"})
		return
	}
	if ic.taskClient == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "task queue is disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ic.taskClient.Status(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// SyncStatus handles GET /api/import/status: reports the scheduler state.
func (ic *ImportController) SyncStatus(c *gin.Context) {
	if ic.scheduler == nil {
		c.JSON(http.StatusOK, gin.H{"scheduler": "disabled"})
		return
	}

	resp := gin.H{
		"scheduler": "enabled",
		"running":   ic.scheduler.IsRunning(),
		"syncing":   ic.scheduler.IsSyncing(),
	}
	if next := ic.scheduler.GetNextRunTime(); next != nil {
		resp["next_run"] = next.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
