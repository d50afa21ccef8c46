package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrivero/blogsync/internal/importer"
)

// ImportPagesTask imports a page range from the source blog into the
// destination store.
type ImportPagesTask struct {
	FromPage int `json:"from_page"`
	Pages    int `json:"pages"`
}

// Config returns the queue configuration for import tasks. The queue
// never runs imports concurrently: the pipeline resolves by natural
// key and assumes a single writer.
func (t ImportPagesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_pages",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportPagesProcessor creates a processor function for ImportPagesTask.
func ImportPagesProcessor(imp *importer.Importer) backlite.QueueProcessor[ImportPagesTask] {
	return func(ctx context.Context, task ImportPagesTask) error {
		if imp == nil {
			return fmt.Errorf("importer not configured")
		}

		result, err := imp.Run(ctx, task.FromPage, task.Pages)
		if err != nil {
			return fmt.Errorf("import pages %d..%d: %w", task.FromPage, task.FromPage+task.Pages-1, err)
		}

		log.Printf("[TASK] Import done: %d pages, %d posts synced, %d failed, %d records skipped",
			result.PagesProcessed, result.PostsSynced, result.PostsFailed, result.RecordsSkipped)

		return nil
	}
}

// NewImportPagesQueue creates a backlite queue for import tasks.
func NewImportPagesQueue(imp *importer.Importer) backlite.Queue {
	return backlite.NewQueue(ImportPagesProcessor(imp))
}
