package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrivero/blogsync/internal/wordpress"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	PagesProcessed int `json:"pages_processed"`
	PostsSynced    int `json:"posts_synced"`
	PostsFailed    int `json:"posts_failed"`
	RecordsSkipped int `json:"records_skipped"`
}

// Importer owns the pagination client and drives the mapper and sync
// engine page by page. The pipeline is fully synchronous and assumes
// single-writer access to the destination store: resolution happens by
// natural key, so two concurrent runs could both miss a lookup and
// both create.
type Importer struct {
	client *wordpress.Client
	syncer *Syncer

	items []*Post
}

// NewImporter creates an importer over a source client and sync engine.
func NewImporter(client *wordpress.Client, syncer *Syncer) *Importer {
	return &Importer{client: client, syncer: syncer}
}

// Parse fetches one page and maps its records into posts, which are
// retained as the current page's items and returned for the caller to
// sync individually. Per-record mapping and date failures are returned
// in errs; the rest of the page is unaffected.
func (i *Importer) Parse(ctx context.Context, page int) (posts []*Post, errs []error, err error) {
	records, err := i.client.FetchPage(ctx, page)
	if err != nil {
		return nil, nil, err
	}

	posts, errs = MapRecords(records)
	i.items = posts
	return posts, errs, nil
}

// Items returns the posts mapped by the most recent Parse call.
func (i *Importer) Items() []*Post {
	return i.items
}

// Run imports pages [fromPage, fromPage+pages). A transport error
// halts pagination; pages synced before it stay synced and the run is
// safe to repeat from the failing page. Date failures are counted per
// post, malformed records are skipped, and destination store errors
// abort the run.
func (i *Importer) Run(ctx context.Context, fromPage, pages int) (ImportResult, error) {
	var result ImportResult

	for page := fromPage; page < fromPage+pages; page++ {
		posts, errs, err := i.Parse(ctx, page)
		if err != nil {
			var transportErr *wordpress.TransportError
			if errors.As(err, &transportErr) {
				log.Printf("Stopping pagination: %v", err)
			}
			return result, err
		}
		result.PagesProcessed++

		for _, mapErr := range errs {
			var dateErr *DateParseError
			if errors.As(mapErr, &dateErr) {
				log.Printf("Post failed on page %d: %v", page, mapErr)
				result.PostsFailed++
				continue
			}
			log.Printf("Skipping record on page %d: %v", page, mapErr)
			result.RecordsSkipped++
		}

		for _, p := range posts {
			if _, err := i.syncer.SyncPost(ctx, p); err != nil {
				return result, fmt.Errorf("sync post %q: %w", p.Slug, err)
			}
			result.PostsSynced++
		}

		log.Printf("Page %d done: %d posts", page, len(posts))
	}

	return result, nil
}
