// Package media provides database operations for media attachments.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/mrivero/blogsync/internal/entities"
)

// PersistError indicates a local I/O failure while storing a media
// file. Callers abandon the association but keep syncing the post;
// database failures are returned plain and propagate.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cannot store media file %s: %s", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Repository handles media attachment database operations and the
// movement of downloaded files into the media directory.
type Repository struct {
	db       *gorm.DB
	mediaDir string
}

// NewRepository creates a new media repository storing files under mediaDir.
func NewRepository(db *gorm.DB, mediaDir string) (*Repository, error) {
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Repository{db: db, mediaDir: mediaDir}, nil
}

// FindAttachment retrieves the attachment associated with the record
// identified by (contentType, objectID) and carrying the given title.
// Returns (nil, nil) on a miss.
//
// The title is part of the key, so a changed source image published
// under an unchanged title is never picked up again. Known limitation
// inherited from the destination model.
func (r *Repository) FindAttachment(contentType string, objectID uint, title string) (*entities.MediaContent, error) {
	var mc entities.MediaContent
	err := r.db.Where("content_type = ? AND object_id = ? AND title = ?", contentType, objectID, title).First(&mc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

// CreateAttachment copies the file at localPath into the media
// directory and records the attachment. The caller owns localPath and
// is responsible for removing it afterwards.
func (r *Repository) CreateAttachment(contentType string, objectID uint, title, localPath string) (*entities.MediaContent, error) {
	storedPath := filepath.Join(r.mediaDir, filepath.Base(localPath))
	if err := copyFile(localPath, storedPath); err != nil {
		return nil, &PersistError{Path: localPath, Err: err}
	}

	mc := &entities.MediaContent{
		ContentType: contentType,
		ObjectID:    objectID,
		Title:       title,
		File:        storedPath,
	}
	if err := r.db.Create(mc).Error; err != nil {
		return nil, err
	}
	return mc, nil
}

// MediaDir returns the media directory path.
func (r *Repository) MediaDir() string {
	return r.mediaDir
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
