package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mrivero/blogsync/internal/database/media"
	"github.com/mrivero/blogsync/internal/database/posts"
	"github.com/mrivero/blogsync/internal/database/taxonomy"
	"github.com/mrivero/blogsync/internal/database/users"
	"github.com/mrivero/blogsync/internal/entities"
)

// postContentType is the content type key under which media
// associations for posts are recorded.
const postContentType = "post"

// Syncer resolves each mapped entity against the destination store by
// its natural key, creating it only on a miss. Existing records are
// never updated on a hit; a repeat sync only backfills relations and
// media.
type Syncer struct {
	users    *users.Repository
	taxonomy *taxonomy.Repository
	posts    *posts.Repository
	media    *media.Repository
	fetcher  *Fetcher
}

// NewSyncer creates a sync engine over the destination repositories.
func NewSyncer(userRepo *users.Repository, taxonomyRepo *taxonomy.Repository, postRepo *posts.Repository, mediaRepo *media.Repository, fetcher *Fetcher) *Syncer {
	return &Syncer{
		users:    userRepo,
		taxonomy: taxonomyRepo,
		posts:    postRepo,
		media:    mediaRepo,
		fetcher:  fetcher,
	}
}

// SyncAuthor resolves an author: first by (source id, username), then
// by username alone, creating the account only when both lookups miss.
// The cascade exists because source ids and destination ids stop
// coinciding after any partial import.
func (s *Syncer) SyncAuthor(a *Author) (*entities.User, error) {
	user, err := s.users.FindByIDAndUsername(a.ID, a.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.FindByUsername(a.Username)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		user, err = s.users.Create(a.Username, a.FirstName, a.LastName, a.IsStaff, a.IsActive, a.IsSuperuser)
		if err != nil {
			return nil, err
		}
		log.Printf("Created user %s", user.Username)
	}
	return user, nil
}

// SyncTag resolves a tag by slug, creating it on a miss.
func (s *Syncer) SyncTag(t Tag) (*entities.Tag, error) {
	tag, err := s.taxonomy.FindTagBySlug(t.Slug)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		tag, err = s.taxonomy.CreateTag(t.Name, t.Slug)
		if err != nil {
			return nil, err
		}
	}
	return tag, nil
}

// SyncCategory resolves a category by slug, creating it on a miss.
func (s *Syncer) SyncCategory(c Category) (*entities.Category, error) {
	category, err := s.taxonomy.FindCategoryBySlug(c.Slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		category, err = s.taxonomy.CreateCategory(c.Name, c.Slug)
		if err != nil {
			return nil, err
		}
	}
	return category, nil
}

// SyncPost resolves or creates the destination post for one mapped
// record and attaches its relations. An existing post keeps its stored
// title, content and date untouched. Media failures never fail the
// post; destination store failures propagate.
func (s *Syncer) SyncPost(ctx context.Context, p *Post) (*entities.Post, error) {
	postType, err := s.resolvePostType(p)
	if err != nil {
		return nil, err
	}

	record, err := s.posts.FindBySlugAndType(p.Slug, postType.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record, err = s.posts.Create(p.Title, p.Slug, p.Content, p.Date, postType.ID)
		if err != nil {
			return nil, err
		}
		log.Printf("Created post %s/%s", postType.Slug, record.Slug)
	}

	if p.Author != nil {
		author, err := s.SyncAuthor(p.Author)
		if err != nil {
			return nil, fmt.Errorf("sync author for post %q: %w", p.Slug, err)
		}
		record.AuthorID = author.ID
	}

	for _, c := range p.Terms.Category {
		category, err := s.SyncCategory(c)
		if err != nil {
			return nil, err
		}
		if err := s.taxonomy.AddCategoryToPost(record, category); err != nil {
			return nil, err
		}
	}

	for _, t := range p.Terms.Tags {
		tag, err := s.SyncTag(t)
		if err != nil {
			return nil, err
		}
		if err := s.taxonomy.AddTagToPost(record, tag); err != nil {
			return nil, err
		}
	}

	if p.FeaturedImage != nil && !p.FeaturedImage.Source.IsZero() {
		if err := s.attachMedia(ctx, record, p.FeaturedImage); err != nil {
			return nil, err
		}
	}

	if err := s.posts.Save(record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Syncer) resolvePostType(p *Post) (*entities.PostType, error) {
	slug := p.TypeSlug()
	postType, err := s.posts.FindPostTypeBySlug(slug)
	if err != nil {
		return nil, err
	}
	if postType == nil {
		postType, err = s.posts.CreatePostType(slug, p.Type)
		if err != nil {
			return nil, err
		}
	}
	return postType, nil
}

// attachMedia downloads and associates a post's featured image unless
// an association already exists for (content type, post id, title).
// Fetch failures and local persist failures degrade to "no media";
// only database errors are returned.
func (s *Syncer) attachMedia(ctx context.Context, record *entities.Post, image *FeaturedImage) error {
	existing, err := s.media.FindAttachment(postContentType, record.ID, image.Title)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	localPath, err := s.fetcher.Fetch(ctx, image.Source)
	if err != nil {
		log.Printf("Skipping media for post %s: %v", record.Slug, err)
		return nil
	}
	defer removeScratchFile(localPath)

	if _, err := s.media.CreateAttachment(postContentType, record.ID, image.Title, localPath); err != nil {
		var persistErr *media.PersistError
		if errors.As(err, &persistErr) {
			log.Printf("Abandoning media for post %s: %v", record.Slug, err)
			return nil
		}
		return err
	}

	log.Printf("Attached media %s to post %s", image.Source.Name, record.Slug)
	return nil
}

func removeScratchFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("WARNING: could not remove temporary file %s: %v", path, err)
	}
}
