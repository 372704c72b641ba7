package notifications

import (
	"context"

	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

// Repository defines the data access interface for notifications
type Repository interface {
	// Create inserts a notification and fills in ID and CreatedAt.
	// A second like notification for the same (actor, post) is ignored.
	Create(ctx context.Context, n *Notification) error

	// DeleteLike removes the like notification of actor on post, if any
	DeleteLike(ctx context.Context, actorID, postID string) error

	// SetReply points a notification at the reply written from it
	SetReply(ctx context.Context, notificationID, replyID string) error

	// List returns the recipient's notifications newest first.
	// An empty types slice means every type.
	List(ctx context.Context, recipientID string, types []Type, limit, offset int) ([]*View, error)
	Count(ctx context.Context, recipientID string, types []Type) (int, error)

	// MarkSeen flags the given notifications as seen
	MarkSeen(ctx context.Context, ids []string) error

	// CountUnseen counts unseen notifications of the given types sent by other users
	CountUnseen(ctx context.Context, recipientID string, types []Type) (int, error)
	HasUnseen(ctx context.Context, recipientID string, types []Type) (bool, error)
}

// SettingsReader exposes the recipient's notification preferences
type SettingsReader interface {
	GetNotificationSettings(ctx context.Context, userID string) (*users.NotificationSettings, error)
}

// Service defines the business logic interface for a user's notification feed
type Service interface {
	// List returns one page of notifications and marks them seen.
	// DeletedDocCount shifts the window back by the number of items the
	// client removed from earlier pages.
	List(ctx context.Context, userID string, req ListRequest) ([]*View, error)

	Count(ctx context.Context, userID, filter string) (int, error)

	// HasNew reports whether an unseen notification of an enabled type exists
	HasNew(ctx context.Context, userID string) (bool, error)

	// UnreadCount counts unseen notifications of enabled types
	UnreadCount(ctx context.Context, userID string) (int, error)
}
