package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrivero/blogsync/internal/database/media"
	"github.com/mrivero/blogsync/internal/database/posts"
	"github.com/mrivero/blogsync/internal/database/taxonomy"
	"github.com/mrivero/blogsync/internal/database/users"
	"github.com/mrivero/blogsync/internal/entities"
)

type syncFixture struct {
	db         *gorm.DB
	users      *users.Repository
	taxonomy   *taxonomy.Repository
	posts      *posts.Repository
	media      *media.Repository
	syncer     *Syncer
	scratchDir string
}

func setupSyncTest(t *testing.T) (*syncFixture, func()) {
	dbPath := "./test_importer_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.PostType{},
		&entities.Post{},
		&entities.Tag{},
		&entities.Category{},
		&entities.MediaContent{},
	)
	require.NoError(t, err)

	mediaRepo, err := media.NewRepository(db, t.TempDir())
	require.NoError(t, err)

	fx := &syncFixture{
		db:         db,
		users:      users.NewRepository(db),
		taxonomy:   taxonomy.NewRepository(db),
		posts:      posts.NewRepository(db),
		media:      mediaRepo,
		scratchDir: t.TempDir(),
	}
	fetcher := NewFetcher(fx.scratchDir)
	fx.syncer = NewSyncer(fx.users, fx.taxonomy, fx.posts, mediaRepo, fetcher)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return fx, cleanup
}

func (fx *syncFixture) count(t *testing.T, model any) int64 {
	var n int64
	require.NoError(t, fx.db.Model(model).Count(&n).Error)
	return n
}

func examplePost() *Post {
	return &Post{
		ID:      10,
		Title:   "Hello World",
		Slug:    "hello-world",
		Content: "<p>First!</p>",
		Type:    "post",
		Date:    time.Date(2012, 3, 1, 10, 0, 0, 0, time.UTC),
		Author:  &Author{ID: 3, Username: "bob", FirstName: "Bob", IsStaff: true, IsActive: true},
		Terms: Terms{
			Category: []Category{{Name: "Introductions", Slug: "intro"}},
			Tags:     []Tag{{Name: "Meta", Slug: "meta"}},
		},
	}
}

func TestSyncer_SyncPost(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	record, err := fx.syncer.SyncPost(context.Background(), examplePost())
	require.NoError(t, err)
	assert.Equal(t, "hello-world", record.Slug)
	assert.Equal(t, "Hello World", record.Title)

	author, err := fx.users.FindByUsername("bob")
	require.NoError(t, err)
	require.NotNil(t, author)
	assert.True(t, author.IsStaff)
	assert.True(t, author.IsActive)
	assert.False(t, author.IsSuperuser)
	assert.NotEmpty(t, author.PasswordHash)

	reloaded, err := fx.posts.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, reloaded.AuthorID)

	tags, err := fx.taxonomy.GetTagsForPost(record.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "meta", tags[0].Slug)

	categories, err := fx.taxonomy.GetCategoriesForPost(record.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "intro", categories[0].Slug)

	postType, err := fx.posts.FindPostTypeBySlug("post")
	require.NoError(t, err)
	require.NotNil(t, postType)
}

func TestSyncer_SyncPost_Idempotent(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	ctx := context.Background()

	first, err := fx.syncer.SyncPost(ctx, examplePost())
	require.NoError(t, err)
	second, err := fx.syncer.SyncPost(ctx, examplePost())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), fx.count(t, &entities.Post{}))
	assert.Equal(t, int64(1), fx.count(t, &entities.User{}))
	assert.Equal(t, int64(1), fx.count(t, &entities.Tag{}))
	assert.Equal(t, int64(1), fx.count(t, &entities.Category{}))
	assert.Equal(t, int64(1), fx.count(t, &entities.PostType{}))
}

func TestSyncer_SyncPost_NoOverwriteOnHit(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := fx.syncer.SyncPost(ctx, examplePost())
	require.NoError(t, err)

	changed := examplePost()
	changed.Title = "Hello World, edited"
	changed.Content = "<p>Rewritten</p>"

	record, err := fx.syncer.SyncPost(ctx, changed)
	require.NoError(t, err)

	// Stored content wins over inbound content on a repeat sync
	assert.Equal(t, "Hello World", record.Title)
	assert.Equal(t, "<p>First!</p>", record.Content)
}

func TestSyncer_SyncPost_SameSlugDifferentType(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	ctx := context.Background()

	post := examplePost()
	_, err := fx.syncer.SyncPost(ctx, post)
	require.NoError(t, err)

	page := examplePost()
	page.Type = "page"
	_, err = fx.syncer.SyncPost(ctx, page)
	require.NoError(t, err)

	assert.Equal(t, int64(2), fx.count(t, &entities.Post{}))
	assert.Equal(t, int64(2), fx.count(t, &entities.PostType{}))
}

func TestSyncer_SyncAuthor_ResolvesByUsername(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	existing, err := fx.users.Create("bob", "Bob", "", true, true, false)
	require.NoError(t, err)

	// Source id no longer matches the destination id; the username
	// fallback must still find the account instead of creating one
	resolved, err := fx.syncer.SyncAuthor(&Author{ID: existing.ID + 90, Username: "bob", IsStaff: true, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved.ID)
	assert.Equal(t, int64(1), fx.count(t, &entities.User{}))
}

func TestSyncer_SyncPost_AttachesMedia(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	post := examplePost()
	post.FeaturedImage = &FeaturedImage{
		Title:  "Header",
		Source: NewRemoteFile(server.URL + "/uploads/header.jpg"),
	}

	record, err := fx.syncer.SyncPost(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)

	attachment, err := fx.media.FindAttachment("post", record.ID, "Header")
	require.NoError(t, err)
	require.NotNil(t, attachment)
	assert.Equal(t, filepath.Join(fx.media.MediaDir(), "header.jpg"), attachment.File)

	content, err := os.ReadFile(attachment.File)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	// The scratch copy is removed once the file is stored
	entries, err := os.ReadDir(fx.scratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncer_SyncPost_MediaIdempotent(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	ctx := context.Background()

	makePost := func() *Post {
		p := examplePost()
		p.FeaturedImage = &FeaturedImage{
			Title:  "Header",
			Source: NewRemoteFile(server.URL + "/uploads/header.jpg"),
		}
		return p
	}

	record, err := fx.syncer.SyncPost(ctx, makePost())
	require.NoError(t, err)
	_, err = fx.syncer.SyncPost(ctx, makePost())
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "an existing association must not be downloaded again")
	assert.Equal(t, int64(1), fx.count(t, &entities.MediaContent{}))

	attachment, err := fx.media.FindAttachment("post", record.ID, "Header")
	require.NoError(t, err)
	require.NotNil(t, attachment)
}

func TestSyncer_SyncPost_MediaFetchFailure(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	post := examplePost()
	post.FeaturedImage = &FeaturedImage{
		Title:  "Header",
		Source: NewRemoteFile(server.URL + "/uploads/header.jpg"),
	}

	// An unreachable image degrades to "no media"; the post itself syncs
	record, err := fx.syncer.SyncPost(context.Background(), post)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, int64(0), fx.count(t, &entities.MediaContent{}))
}

func TestSyncer_SyncPost_NoImageReference(t *testing.T) {
	fx, cleanup := setupSyncTest(t)
	defer cleanup()

	post := examplePost()
	post.FeaturedImage = &FeaturedImage{Title: "gone", Source: RemoteFile{}}

	record, err := fx.syncer.SyncPost(context.Background(), post)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, int64(0), fx.count(t, &entities.MediaContent{}))
}
