// Package posts provides database operations for posts and post types.
//
// A post is uniquely identified by (slug, post type); post types are
// keyed by slug.
package posts

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrivero/blogsync/internal/entities"
)

// Repository handles all post and post type database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new posts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindPostTypeBySlug retrieves a post type by slug. Returns (nil, nil) on a miss.
func (r *Repository) FindPostTypeBySlug(slug string) (*entities.PostType, error) {
	var postType entities.PostType
	err := r.db.Where("slug = ?", slug).First(&postType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &postType, nil
}

// CreatePostType creates a new post type.
func (r *Repository) CreatePostType(slug, name string) (*entities.PostType, error) {
	postType := &entities.PostType{
		Slug: slug,
		Name: name,
	}
	if err := r.db.Create(postType).Error; err != nil {
		return nil, err
	}
	return postType, nil
}

// FindBySlugAndType retrieves a post by its (slug, post type) natural
// key. Returns (nil, nil) on a miss.
func (r *Repository) FindBySlugAndType(slug string, postTypeID uint) (*entities.Post, error) {
	var post entities.Post
	err := r.db.Where("slug = ? AND post_type_id = ?", slug, postTypeID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create creates a new post.
func (r *Repository) Create(title, slug, content string, publishedAt time.Time, postTypeID uint) (*entities.Post, error) {
	post := &entities.Post{
		Title:       title,
		Slug:        slug,
		Content:     content,
		PublishedAt: publishedAt,
		PostTypeID:  postTypeID,
	}
	if err := r.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Save persists the current state of a post. Associations are managed
// separately; Save only writes the post row itself.
func (r *Repository) Save(post *entities.Post) error {
	return r.db.Omit("PostType", "Author", "Categories", "Tags").Save(post).Error
}

// GetByID retrieves a post with its relations.
func (r *Repository) GetByID(id uint) (*entities.Post, error) {
	var post entities.Post
	err := r.db.Preload("PostType").Preload("Author").
		Preload("Categories").Preload("Tags").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAll retrieves all posts ordered by publication date.
func (r *Repository) GetAll() ([]entities.Post, error) {
	var posts []entities.Post
	err := r.db.Preload("PostType").Order("published_at DESC").Find(&posts).Error
	return posts, err
}
