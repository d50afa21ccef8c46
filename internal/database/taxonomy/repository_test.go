package taxonomy

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

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_taxonomy_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.PostType{}, &entities.Post{}, &entities.Tag{}, &entities.Category{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createTestPost(t *testing.T, db *gorm.DB) *entities.Post {
	postType := &entities.PostType{Slug: "post", Name: "post"}
	require.NoError(t, db.Create(postType).Error)

	post := &entities.Post{
		Title:       "Hello",
		Slug:        "hello",
		PostTypeID:  postType.ID,
		PublishedAt: time.Now(),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestRepository_FindTagBySlug(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	missing, err := repo.FindTagBySlug("go")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.CreateTag("Go", "go")
	require.NoError(t, err)

	found, err := repo.FindTagBySlug("go")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Go", found.Name)
}

func TestRepository_FindCategoryBySlug(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	missing, err := repo.FindCategoryBySlug("music")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.CreateCategory("Music", "music")
	require.NoError(t, err)

	found, err := repo.FindCategoryBySlug("music")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepository_AddTagToPost(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	post := createTestPost(t, db)
	tag, err := repo.CreateTag("Go", "go")
	require.NoError(t, err)

	err = repo.AddTagToPost(post, tag)
	require.NoError(t, err)

	tags, err := repo.GetTagsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Slug)
}

func TestRepository_AddCategoryToPost(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	post := createTestPost(t, db)
	category, err := repo.CreateCategory("Music", "music")
	require.NoError(t, err)

	err = repo.AddCategoryToPost(post, category)
	require.NoError(t, err)

	categories, err := repo.GetCategoriesForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "music", categories[0].Slug)
}
