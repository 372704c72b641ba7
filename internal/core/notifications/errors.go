package notifications

import "github.com/minhchau-creator/blogger.com/internal/core/apperr"

var (
	// ErrNotificationNotFound indicates the referenced notification doesn't exist
	ErrNotificationNotFound = apperr.NotFound("notification", "")

	// ErrInvalidFilter indicates a filter other than all, like, comment or reply
	ErrInvalidFilter = apperr.Validation("filter", "filter must be one of all, like, comment, reply")
)
