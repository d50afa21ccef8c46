// Package taxonomy provides database operations for tags and categories.
//
// Both term kinds are keyed by slug: repeated imports of the same slug
// always resolve to the same row.
package taxonomy

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrivero/blogsync/internal/entities"
)

// Repository handles all tag and category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new taxonomy repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindTagBySlug retrieves a tag by slug. Returns (nil, nil) on a miss.
func (r *Repository) FindTagBySlug(slug string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a new tag.
func (r *Repository) CreateTag(name, slug string) (*entities.Tag, error) {
	tag := &entities.Tag{
		Name: name,
		Slug: slug,
	}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// FindCategoryBySlug retrieves a category by slug. Returns (nil, nil) on a miss.
func (r *Repository) FindCategoryBySlug(slug string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a new category.
func (r *Repository) CreateCategory(name, slug string) (*entities.Category, error) {
	category := &entities.Category{
		Name: name,
		Slug: slug,
	}
	if err := r.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// AddTagToPost associates a tag with a post. Appending an already
// associated tag is a no-op.
func (r *Repository) AddTagToPost(post *entities.Post, tag *entities.Tag) error {
	return r.db.Model(post).Association("Tags").Append(tag)
}

// AddCategoryToPost associates a category with a post. Appending an
// already associated category is a no-op.
func (r *Repository) AddCategoryToPost(post *entities.Post, category *entities.Category) error {
	return r.db.Model(post).Association("Categories").Append(category)
}

// GetTagsForPost retrieves all tags associated with a post.
func (r *Repository) GetTagsForPost(postID uint) ([]entities.Tag, error) {
	var post entities.Post
	if err := r.db.Preload("Tags").First(&post, postID).Error; err != nil {
		return nil, err
	}
	return post.Tags, nil
}

// GetCategoriesForPost retrieves all categories associated with a post.
func (r *Repository) GetCategoriesForPost(postID uint) ([]entities.Category, error) {
	var post entities.Post
	if err := r.db.Preload("Categories").First(&post, postID).Error; err != nil {
		return nil, err
	}
	return post.Categories, nil
}
