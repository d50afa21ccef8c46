package posts

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrivero/blogsync/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_posts_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.PostType{}, &entities.Post{}, &entities.Tag{}, &entities.Category{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_PostTypes(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	missing, err := repo.FindPostTypeBySlug("post")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.CreatePostType("post", "post")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindPostTypeBySlug("post")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepository_FindBySlugAndType(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	postType, err := repo.CreatePostType("post", "post")
	require.NoError(t, err)
	pageType, err := repo.CreatePostType("page", "page")
	require.NoError(t, err)

	published := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	created, err := repo.Create("About", "about", "body", published, postType.ID)
	require.NoError(t, err)

	found, err := repo.FindBySlugAndType("about", postType.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// Same slug under a different type is a distinct entity
	other, err := repo.FindBySlugAndType("about", pageType.ID)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRepository_Save(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	postType, err := repo.CreatePostType("post", "post")
	require.NoError(t, err)

	post, err := repo.Create("Hello", "hello", "body", time.Now(), postType.ID)
	require.NoError(t, err)

	post.AuthorID = 7
	err = repo.Save(post)
	require.NoError(t, err)

	reloaded, err := repo.FindBySlugAndType("hello", postType.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, uint(7), reloaded.AuthorID)
	assert.Equal(t, "Hello", reloaded.Title)
}
