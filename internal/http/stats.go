package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrivero/blogsync/internal/database"
)

// StatsController reports destination store counters.
type StatsController struct {
	db *database.Database
}

// NewStatsController creates a new StatsController.
func NewStatsController(db *database.Database) *StatsController {
	return &StatsController{db: db}
}

// Stats handles GET /api/stats.
func (sc *StatsController) Stats(c *gin.Context) {
	posts, users, media, err := sc.db.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"users": users,
		"media": media,
	})
}
