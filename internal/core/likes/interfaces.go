package likes

import (
	"context"

	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

// Service defines the business logic interface for likes
type Service interface {
	// ToggleLike moves the like state of userID on postID away from
	// currentlyLiked:
	//   - false -> true: store the like, bump total_likes, notify the author
	//   - true -> false: remove the like, drop total_likes, delete the notification
	// Repeating a request whose target state already holds changes nothing.
	ToggleLike(ctx context.Context, userID, postID string, currentlyLiked bool) (*ToggleResult, error)

	// IsLiked reports whether userID currently likes postID
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
}

// Repository defines the data access interface for likes
type Repository interface {
	// Insert stores the like. Returns false when it already existed.
	Insert(ctx context.Context, userID, postID string) (bool, error)

	// Delete removes the like. Returns false when there was none.
	Delete(ctx context.Context, userID, postID string) (bool, error)

	Exists(ctx context.Context, userID, postID string) (bool, error)
}

// PostCounter is the slice of the post store that likes need
type PostCounter interface {
	// GetPostAuthor returns the author of postID or a not found error
	GetPostAuthor(ctx context.Context, postID string) (string, error)

	// AdjustLikes adds delta to total_likes, never going below zero
	AdjustLikes(ctx context.Context, postID string, delta int) error
}

// NotificationWriter is the slice of the notification store that likes need
type NotificationWriter interface {
	Create(ctx context.Context, n *notifications.Notification) error
	DeleteLike(ctx context.Context, actorID, postID string) error
}

// TrendingInvalidator drops a cached trending feed
type TrendingInvalidator interface {
	InvalidateTrending()
}
