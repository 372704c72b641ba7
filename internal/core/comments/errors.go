package comments

import "github.com/minhchau-creator/blogger.com/internal/core/apperr"

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = apperr.NotFound("comment", "")

	// ErrPostNotFound indicates the commented post doesn't exist
	ErrPostNotFound = apperr.NotFound("post", "")

	// ErrParentNotFound indicates the comment being replied to doesn't exist
	ErrParentNotFound = apperr.NotFound("parent comment", "")

	// ErrParentOnOtherPost indicates a reply whose parent belongs to another post
	ErrParentOnOtherPost = apperr.Validation("replying_to", "parent comment belongs to another post")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = apperr.Validation("comment", "Write something to leave a comment")

	// ErrContentTooLong indicates comment content exceeds 10000 graphemes
	ErrContentTooLong = apperr.Validation("comment", "comment content exceeds 10000 graphemes")

	// ErrNotAuthorized indicates the user may not delete this comment
	ErrNotAuthorized = apperr.Permission("delete comment", "You can not delete this comment")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return apperr.IsNotFound(err)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return apperr.IsValidation(err)
}
