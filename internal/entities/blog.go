package entities

import (
	"time"
)

// User is a destination author account. Accounts created by the import
// pipeline carry an unusable password hash and exist only so posts can
// reference their author.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	FirstName    string    `gorm:"size:150" json:"first_name,omitempty"`
	LastName     string    `gorm:"size:150" json:"last_name,omitempty"`
	PasswordHash string    `gorm:"size:60" json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostType categorizes posts ("post", "page", ...). Keyed by slug.
type PostType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"uniqueIndex;size:100" json:"slug"`
	Name string `gorm:"size:100" json:"name"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255" json:"name"`
	Slug  string `gorm:"uniqueIndex;size:255" json:"slug"`
	Posts []Post `gorm:"many2many:post_categories;" json:"-"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255" json:"name"`
	Slug  string `gorm:"uniqueIndex;size:255" json:"slug"`
	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}

// Post is the destination record for one imported entry. A post is
// uniquely identified by (slug, post type).
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:512" json:"title"`
	Slug        string     `gorm:"size:255;index:idx_posts_slug_type,unique" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	PublishedAt time.Time  `json:"published_at"`
	PostTypeID  uint       `gorm:"index:idx_posts_slug_type,unique" json:"post_type_id"`
	PostType    PostType   `gorm:"foreignKey:PostTypeID" json:"post_type,omitempty"`
	AuthorID    uint       `gorm:"index" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories  []Category `gorm:"many2many:post_categories;" json:"categories,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MediaContent is a binary attachment associated with another record
// through a (content type, object id) pair, mirroring a generic
// relation. File holds the path of the stored media file.
type MediaContent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContentType string    `gorm:"index:idx_media_owner;size:50" json:"content_type"`
	ObjectID    uint      `gorm:"index:idx_media_owner" json:"object_id"`
	Title       string    `gorm:"size:512" json:"title"`
	File        string    `gorm:"size:1024" json:"file"`
	MimeType    string    `gorm:"size:100" json:"mime_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (PostType) TableName() string {
	return "post_types"
}

func (Category) TableName() string {
	return "categories"
}

func (Tag) TableName() string {
	return "tags"
}

func (Post) TableName() string {
	return "posts"
}

func (MediaContent) TableName() string {
	return "media_contents"
}
