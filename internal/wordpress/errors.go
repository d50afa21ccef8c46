package wordpress

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials indicates the client was built without a site URL
var ErrMissingCredentials = errors.New("wordpress site URL is not configured")

// TransportError represents a non-success HTTP response from the
// source API. Pagination stops when one is raised; pages synced before
// the failure are unaffected.
type TransportError struct {
	StatusCode int
	Page       int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wordpress API returned HTTP %d for page %d", e.StatusCode, e.Page)
}
