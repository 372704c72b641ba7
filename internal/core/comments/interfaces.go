package comments

import (
	"context"

	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

// Service defines the business logic interface for comment operations
type Service interface {
	// AddComment creates a comment, or a reply when ReplyingTo is set, and
	// in the same transaction links it to its parent, bumps the post's
	// counters and notifies the post author (comment) or the parent
	// comment's author (reply). No one is notified of their own action.
	AddComment(ctx context.Context, userID string, req AddCommentRequest) (*AddCommentResult, error)

	// DeleteComment soft-deletes a comment. Only the comment's author or the
	// post's author may delete it. Counters and thread links are kept.
	DeleteComment(ctx context.Context, commentID, userID string) error

	// FetchTopLevelComments lists a post's comments that have no parent,
	// newest first
	FetchTopLevelComments(ctx context.Context, postID string, skip, limit int) ([]*CommentView, error)

	// FetchReplies lists the direct replies of a comment, newest first.
	// Each reply's depth is parentDepth + 1.
	FetchReplies(ctx context.Context, commentID string, skip, limit, parentDepth int) ([]*CommentView, error)
}

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts a comment and fills in ID and CreatedAt
	Create(ctx context.Context, comment *Comment) error

	GetByID(ctx context.Context, id string) (*Comment, error)

	// AppendChild adds childID to the end of the parent's children list
	AppendChild(ctx context.Context, parentID, childID string) error

	// SoftDelete sets the tombstone flag and replaces the text
	SoftDelete(ctx context.Context, id, placeholder string) error

	ListTopLevel(ctx context.Context, postID string, limit, offset int) ([]*CommentView, error)
	ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*CommentView, error)
}

// PostStore is the slice of the post store that comments need
type PostStore interface {
	// GetPostAuthor returns the author of postID or a not found error
	GetPostAuthor(ctx context.Context, postID string) (string, error)

	// IncrementComments bumps total_comments, and total_parent_comments
	// too when topLevel is true
	IncrementComments(ctx context.Context, postID string, topLevel bool) error
}

// NotificationWriter is the slice of the notification store that comments need
type NotificationWriter interface {
	Create(ctx context.Context, n *notifications.Notification) error
	SetReply(ctx context.Context, notificationID, replyID string) error
}

// TrendingInvalidator drops a cached trending feed
type TrendingInvalidator interface {
	InvalidateTrending()
}
