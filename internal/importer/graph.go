package importer

import (
	"strings"
	"time"
)

// Author is the post author as it appears nested inside a source
// record. The staff/active/superuser flags are import policy, not
// record fields, and are applied by the mapper.
type Author struct {
	ID          uint   `mapstructure:"id"`
	Username    string `mapstructure:"username"`
	FirstName   string `mapstructure:"first_name"`
	LastName    string `mapstructure:"last_name"`
	IsStaff     bool   `mapstructure:"-"`
	IsActive    bool   `mapstructure:"-"`
	IsSuperuser bool   `mapstructure:"-"`
}

type Tag struct {
	Name string `mapstructure:"name"`
	Slug string `mapstructure:"slug"`
}

type Category struct {
	Name string `mapstructure:"name"`
	Slug string `mapstructure:"slug"`
}

// Terms holds the taxonomy terms attached to one post. Absent
// sublists map to empty slices.
type Terms struct {
	Category []Category `mapstructure:"category"`
	Tags     []Tag      `mapstructure:"tags"`
}

// AttachmentVariant describes one rendition of an attachment
// (thumbnail, medium, ...) with its file reference.
type AttachmentVariant struct {
	File     string `mapstructure:"file"`
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	MimeType string `mapstructure:"mime_type"`
	URL      string `mapstructure:"url"`
}

// AttachmentMeta carries the size/format metadata of a featured image.
type AttachmentMeta struct {
	File   string                       `mapstructure:"file"`
	Width  int                          `mapstructure:"width"`
	Height int                          `mapstructure:"height"`
	Sizes  map[string]AttachmentVariant `mapstructure:"sizes"`
}

// FeaturedImage is the media record nested inside a post. Source is a
// lazy file reference: no network I/O happens until Fetcher.Fetch.
type FeaturedImage struct {
	Title          string         `mapstructure:"title"`
	RawSource      string         `mapstructure:"source"`
	Source         RemoteFile     `mapstructure:"-"`
	AttachmentMeta AttachmentMeta `mapstructure:"attachment_meta"`
}

// Post is the typed graph for one imported record. It lives for a
// single page pass: constructed by the mapper, consumed by the sync
// engine, then discarded.
type Post struct {
	ID      uint   `mapstructure:"id"`
	Title   string `mapstructure:"title"`
	Slug    string `mapstructure:"slug"`
	Content string `mapstructure:"content"`
	Type    string `mapstructure:"type"`

	// RawDate holds the inbound timestamp text; Date is its parsed
	// value, set once by the mapper.
	RawDate string    `mapstructure:"date"`
	Date    time.Time `mapstructure:"-"`

	Author        *Author        `mapstructure:"author"`
	Terms         Terms          `mapstructure:"terms"`
	FeaturedImage *FeaturedImage `mapstructure:"featured_image"`
}

// TypeSlug returns the post type field lowered into slug form.
func (p *Post) TypeSlug() string {
	slug := strings.ToLower(strings.TrimSpace(p.Type))
	return strings.ReplaceAll(slug, " ", "-")
}
