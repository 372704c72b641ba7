package likes

import (
	"context"
	"time"
)

// Like records that a user likes a post.
// The (UserID, PostID) pair is unique.
type Like struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    string    `json:"userId" db:"user_id"`
	PostID    string    `json:"postId" db:"post_id"`
}

// ToggleLikeRequest is the body of a like toggle.
// CurrentlyLiked is the state the client believes the like is in.
type ToggleLikeRequest struct {
	PostID         string `json:"_id" validate:"required,uuid"`
	CurrentlyLiked bool   `json:"islikedByUser"`
}

// ToggleResult is the like state after a toggle
type ToggleResult struct {
	Liked bool `json:"liked_by_user"`
}

// Transactor runs fn inside a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
