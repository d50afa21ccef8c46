package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrivero/blogsync/internal/config"
	"github.com/mrivero/blogsync/internal/database"
	"github.com/mrivero/blogsync/internal/database/media"
	"github.com/mrivero/blogsync/internal/database/posts"
	"github.com/mrivero/blogsync/internal/database/taxonomy"
	"github.com/mrivero/blogsync/internal/database/users"
	http_controllers "github.com/mrivero/blogsync/internal/http"
	"github.com/mrivero/blogsync/internal/importer"
	"github.com/mrivero/blogsync/internal/scheduler"
	"github.com/mrivero/blogsync/internal/tasks"
	"github.com/mrivero/blogsync/internal/wordpress"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop the scheduler and task queue before the HTTP listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// BuildImporter wires the import pipeline over an open database.
func BuildImporter(db *database.Database, cfg *config.Config) (*importer.Importer, error) {
	mediaRepo, err := media.NewRepository(db.DB, cfg.Media.Dir)
	if err != nil {
		return nil, fmt.Errorf("media repository: %w", err)
	}

	syncer := importer.NewSyncer(
		users.NewRepository(db.DB),
		taxonomy.NewRepository(db.DB),
		posts.NewRepository(db.DB),
		mediaRepo,
		importer.NewFetcher(cfg.Media.ScratchDir),
	)

	client := wordpress.NewClient(cfg.WordPress.URL, cfg.WordPress.Username, cfg.WordPress.Password)

	return importer.NewImporter(client, syncer), nil
}

// Run starts the sync service: database, task queue, scheduler and
// HTTP surface.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting blogsync v%s", version)

	if cfg.WordPress.URL == "" {
		log.Printf("WARNING: WordPress source is not set. Import endpoints will be disabled. Set 'WORDPRESS_URL' environment variable to enable.")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	imp, err := BuildImporter(db, cfg)
	if err != nil {
		log.Fatalf("Failed to build importer: %v", err)
	}

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		taskClient.Register(tasks.NewImportPagesQueue(imp))
		go taskClient.Start(context.Background())
	}

	var syncScheduler *scheduler.WordPressSyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewWordPressSyncScheduler(imp, cfg.WordPress, cfg.Sync.Schedule)
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start sync scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		DB:         db,
		TaskClient: taskClient,
		Scheduler:  syncScheduler,
		WordPress:  cfg.WordPress,
		Version:    version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if syncScheduler != nil {
			syncScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskClient.Close()
		}
	})
}
