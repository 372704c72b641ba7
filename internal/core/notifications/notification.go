package notifications

import (
	"time"

	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

// Type is the kind of activity a notification reports
type Type string

const (
	TypeLike    Type = "like"
	TypeComment Type = "comment"
	TypeReply   Type = "reply"
)

// Filter values accepted by List and Count
const (
	FilterAll     = "all"
	FilterLike    = string(TypeLike)
	FilterComment = string(TypeComment)
	FilterReply   = string(TypeReply)
)

// PageSize is the number of notifications returned per page
const PageSize = 10

// Notification is a fan-out record created by likes, comments and replies.
// A like notification exists at most once per (actor, post); comment and
// reply notifications are append-only.
type Notification struct {
	CreatedAt          time.Time `db:"created_at"`
	CommentID          *string   `db:"comment_id"`
	RepliedOnCommentID *string   `db:"replied_on_comment_id"`
	ReplyID            *string   `db:"reply_id"`
	ID                 string    `db:"id"`
	Type               Type      `db:"type"`
	PostID             string    `db:"post_id"`
	RecipientID        string    `db:"recipient_id"`
	ActorID            string    `db:"actor_id"`
	Seen               bool      `db:"seen"`
}

// PostRef is the post block embedded in a notification view
type PostRef struct {
	ID     string `json:"_id"`
	BlogID string `json:"blog_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// CommentRef is a comment block embedded in a notification view
type CommentRef struct {
	ID      string `json:"_id"`
	Comment string `json:"comment"`
}

// View is a notification as listed for its recipient
type View struct {
	CreatedAt        time.Time     `json:"createdAt"`
	Blog             PostRef       `json:"blog"`
	User             users.Summary `json:"user"`
	Comment          *CommentRef   `json:"comment,omitempty"`
	RepliedOnComment *CommentRef   `json:"replied_on_comment,omitempty"`
	Reply            *CommentRef   `json:"reply,omitempty"`
	ID               string        `json:"_id"`
	Type             Type          `json:"type"`
	Seen             bool          `json:"seen"`
}

// ListRequest carries the paging and filter parameters of a listing
type ListRequest struct {
	Filter          string `json:"filter"`
	Page            int    `json:"page"`
	DeletedDocCount int    `json:"deletedDocCount"`
}

// EnabledTypes returns the notification kinds enabled by settings
func EnabledTypes(settings users.NotificationSettings) []Type {
	var enabled []Type
	if settings.Likes {
		enabled = append(enabled, TypeLike)
	}
	if settings.Comments {
		enabled = append(enabled, TypeComment)
	}
	if settings.Replies {
		enabled = append(enabled, TypeReply)
	}
	return enabled
}
