package likes

import "github.com/minhchau-creator/blogger.com/internal/core/apperr"

var (
	// ErrPostNotFound indicates the post being liked doesn't exist
	ErrPostNotFound = apperr.NotFound("post", "")

	// ErrInvalidPost indicates the post reference is missing
	ErrInvalidPost = apperr.Validation("_id", "post id is required")
)
