package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		WordPress
		Database
		Media
		Sync
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	WordPress struct {
		URL      string // Base URL of the source blog, e.g. "https://old-blog.example.com"
		Username string
		Password string
		Pages    int // Number of pages to import per run
		FromPage int // First page of a run
	}
	Database struct {
		Path string
	}
	Media struct {
		Dir        string // Directory media files are stored in after attachment
		ScratchDir string // Directory downloads land in before attachment
	}
	Sync struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("wordpress_url", "")
	v.SetDefault("wordpress_username", "")
	v.SetDefault("wordpress_password", "")
	v.SetDefault("wordpress_pages", 5)
	v.SetDefault("wordpress_from_page", 1)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("media_dir", "./media")
	v.SetDefault("media_scratch_dir", ".")
	v.SetDefault("sync_enabled", false)
	v.SetDefault("sync_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults. The sync pipeline resolves by natural key
	// with no cross-process registry, so the queue runs one worker.
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_max_retries", 1)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "30m")
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		WordPress: WordPress{
			URL:      v.GetString("WORDPRESS_URL"),
			Username: v.GetString("WORDPRESS_USERNAME"),
			Password: v.GetString("WORDPRESS_PASSWORD"),
			Pages:    v.GetInt("WORDPRESS_PAGES"),
			FromPage: v.GetInt("WORDPRESS_FROM_PAGE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Media: Media{
			Dir:        v.GetString("MEDIA_DIR"),
			ScratchDir: v.GetString("MEDIA_SCRATCH_DIR"),
		},
		Sync: Sync{
			Enabled:  v.GetBool("SYNC_ENABLED"),
			Schedule: v.GetString("SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
