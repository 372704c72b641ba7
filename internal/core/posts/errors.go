package posts

import "github.com/minhchau-creator/blogger.com/internal/core/apperr"

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when no post has the requested id
	ErrNotFound = apperr.NotFound("post", "")

	// ErrNotOwner is returned when someone other than the author modifies a post
	ErrNotOwner = apperr.Permission("modify post", "You can not modify this blog")

	// ErrDraftAccess is returned when a draft is read by anyone but its author
	ErrDraftAccess = apperr.Permission("read draft", "You can not access draft blogs")

	ErrTitleRequired   = apperr.Validation("title", "You must provide a title")
	ErrDescription     = apperr.Validation("des", "You must provide blog description under 200 characters")
	ErrBannerRequired  = apperr.Validation("banner", "You must provide blog banner to publish it")
	ErrContentRequired = apperr.Validation("content", "There must be some blog content to publish it")
	ErrTagsRequired    = apperr.Validation("tags", "Provide tags in order to publish the blog, Maximum 10")
	ErrTooManyTags     = apperr.Validation("tags", "Maximum 10 tags")
	ErrTagTooLong      = apperr.Validation("tags", "Tags must be under 20 characters")

	// ErrNoSearchTags is returned by tag searches given no tags
	ErrNoSearchTags = apperr.Validation("tags", "Tags array is required")

	// ErrNoSearchCriteria is returned by Search given no tag, query or author
	ErrNoSearchCriteria = apperr.Validation("query", "Provide a tag, query or author to search")

	ErrInvalidDate = apperr.Validation("date", "Dates must be YYYY-MM-DD or RFC 3339")

	// ErrBlogIDTaken is returned by Repository.Create when the generated
	// blog id is already in use
	ErrBlogIDTaken = apperr.Conflict("post", "Blog id already exists")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return apperr.IsNotFound(err)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	return apperr.IsValidation(err)
}
