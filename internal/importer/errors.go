package importer

import (
	"fmt"
)

// MappingError indicates a record whose shape could not be mapped to
// the entity graph. The record is skipped; the run continues.
type MappingError struct {
	Value any
	Err   error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot map record: %s", e.Err)
	}
	return fmt.Sprintf("cannot map record of type %T", e.Value)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// DateParseError indicates a post date that does not match the
// expected timestamp format. It fails that post's sync only.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid post date %q: expected format %s", e.Value, dateLayout)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// FetchError indicates an HTTP error status while downloading media.
// Media fetch failures are never fatal to the owning post's sync.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("media download of %s failed with HTTP %d", e.URL, e.StatusCode)
}
