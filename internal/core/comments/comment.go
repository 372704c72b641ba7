package comments

import (
	"context"
	"time"

	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

const (
	// DefaultTopLevelPageSize is the page size of a post's top-level comments
	DefaultTopLevelPageSize = 10

	// DefaultRepliesPerParent defines how many nested replies to load per request
	DefaultRepliesPerParent = 5

	// DeletedCommentText replaces the text of a soft-deleted comment
	DeletedCommentText = "This comment has been deleted"

	// maxCommentGraphemes is the maximum length for comment content in graphemes
	maxCommentGraphemes = 10000
)

// Comment is a comment or reply on a post.
// A reply's ID is always listed in its parent's Children.
type Comment struct {
	CreatedAt    time.Time `db:"created_at"`
	ParentID     *string   `db:"parent_id"`
	ID           string    `db:"id"`
	PostID       string    `db:"post_id"`
	PostAuthorID string    `db:"post_author_id"`
	AuthorID     string    `db:"author_id"`
	Text         string    `db:"text"`
	Children     []string  `db:"children"`
	IsReply      bool      `db:"is_reply"`
	IsDeleted    bool      `db:"is_deleted"`
}

// CommentView is a comment as listed under a post or a parent comment.
// Depth is computed per request and never stored.
type CommentView struct {
	CommentedAt time.Time     `json:"commentedAt"`
	ParentID    *string       `json:"parent,omitempty"`
	ID          string        `json:"_id"`
	PostID      string        `json:"blog_id"`
	PostAuthor  string        `json:"blog_author"`
	Comment     string        `json:"comment"`
	CommentedBy users.Summary `json:"commented_by"`
	AuthorID    string        `json:"commented_by_id"`
	Children    []string      `json:"children"`
	Depth       int           `json:"depth"`
	IsReply     bool          `json:"isReply"`
	IsDeleted   bool          `json:"isDeleted"`
}

// AddCommentRequest is the input of AddComment.
// ReplyingTo makes the comment a reply; NotificationID links the reply
// back to the notification it was written from.
type AddCommentRequest struct {
	ReplyingTo     *string `json:"replying_to,omitempty" validate:"omitempty,uuid"`
	NotificationID *string `json:"notification_id,omitempty" validate:"omitempty,uuid"`
	PostID         string  `json:"_id" validate:"required,uuid"`
	Comment        string  `json:"comment"`
}

// AddCommentResult is returned after a comment is created
type AddCommentResult struct {
	CommentedAt time.Time `json:"commentedAt"`
	ID          string    `json:"_id"`
	Comment     string    `json:"comment"`
	UserID      string    `json:"user_id"`
	Children    []string  `json:"children"`
}

// Transactor runs fn inside a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
