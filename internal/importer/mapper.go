// Package importer maps raw source records into a typed entity graph
// and synchronizes that graph into the destination store.
package importer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mrivero/blogsync/internal/wordpress"
)

// dateLayout is the fixed timestamp format used by the source API.
const dateLayout = "2006-01-02T15:04:05"

// MapRecords maps a page payload into posts. data may be a single raw
// record, a []wordpress.RawRecord page, or a generic []any. Records
// that fail mapping or date validation are reported through errs in
// input order; mapping continues with the remaining records.
func MapRecords(data any) (posts []*Post, errs []error) {
	switch v := data.(type) {
	case []wordpress.RawRecord:
		for _, record := range v {
			appendMapped(&posts, &errs, record)
		}
	case []any:
		for _, item := range v {
			record, ok := item.(map[string]any)
			if !ok {
				errs = append(errs, &MappingError{Value: item})
				continue
			}
			appendMapped(&posts, &errs, record)
		}
	case map[string]any:
		appendMapped(&posts, &errs, v)
	case wordpress.RawRecord:
		appendMapped(&posts, &errs, v)
	default:
		errs = append(errs, &MappingError{Value: data})
	}
	return posts, errs
}

func appendMapped(posts *[]*Post, errs *[]error, record map[string]any) {
	post, err := MapPost(record)
	if err != nil {
		*errs = append(*errs, err)
		return
	}
	*posts = append(*posts, post)
}

// MapPost decodes one raw record into a Post. Unknown fields are
// ignored, missing fields keep their zero defaults, and nested
// structures decode recursively. Date parsing, title encoding
// normalization and the featured image file reference are applied
// here, exactly once per record.
func MapPost(record map[string]any) (*Post, error) {
	var post Post

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &post,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(normalizeKeys(record)); err != nil {
		return nil, &MappingError{Value: record, Err: err}
	}

	post.Date, err = parseDate(post.RawDate)
	if err != nil {
		return nil, err
	}

	post.Title = normalizeText(post.Title)

	if post.Author != nil {
		post.Author.IsStaff = true
		post.Author.IsActive = true
		post.Author.IsSuperuser = false
	}

	// Term sublists are per-post sets, freshly allocated even when absent.
	if post.Terms.Category == nil {
		post.Terms.Category = []Category{}
	}
	if post.Terms.Tags == nil {
		post.Terms.Tags = []Tag{}
	}

	if post.FeaturedImage != nil {
		post.FeaturedImage.Source = NewRemoteFile(post.FeaturedImage.RawSource)
	}

	return &post, nil
}

// parseDate parses the inbound timestamp once; a non-conforming value
// fails the record.
func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &DateParseError{Value: value, Err: err}
	}
	return parsed, nil
}

// normalizeKeys rewrites record keys that are invalid as attribute
// identifiers (hyphens become underscores) and folds the source's
// "post_tag" alias into "tags". Nested maps and lists are walked
// recursively.
func normalizeKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(v))
		for key, item := range v {
			key = strings.ReplaceAll(key, "-", "_")
			if key == "post_tag" {
				key = "tags"
			}
			normalized[key] = normalizeKeys(item)
		}
		return normalized
	case wordpress.RawRecord:
		return normalizeKeys(map[string]any(v))
	case []any:
		normalized := make([]any, len(v))
		for i, item := range v {
			normalized[i] = normalizeKeys(item)
		}
		return normalized
	default:
		return value
	}
}

// normalizeText unifies inbound text to UTF-8 at ingestion. Text that
// is not valid UTF-8 is reinterpreted as Latin-1, the encoding legacy
// exports of this kind actually carry.
func normalizeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, _, err := transform.String(charmap.ISO8859_1.NewDecoder(), s)
	if err != nil {
		return strings.ToValidUTF8(s, "")
	}
	return decoded
}
