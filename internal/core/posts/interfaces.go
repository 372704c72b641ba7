package posts

import (
	"context"

	"github.com/minhchau-creator/blogger.com/internal/core/ranking"
)

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost creates a post, or updates it when req.ID names an existing
	// post of the author. The author's total_posts follows the draft flag.
	CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*CreatePostResponse, error)

	// GetPost returns a post with its author and counts a read unless the
	// post is opened for editing. viewerID is empty for anonymous readers.
	GetPost(ctx context.Context, viewerID string, req GetPostRequest) (*PostView, error)

	// DeletePost removes the author's post with its comments, likes and notifications
	DeletePost(ctx context.Context, userID, blogID string) error

	Latest(ctx context.Context, req FeedRequest) ([]*PostView, error)
	CountLatest(ctx context.Context) (int, error)

	// Trending returns the highest scoring published posts
	Trending(ctx context.Context) ([]*PostView, error)

	// SearchByTags lists published posts carrying any of req.Tags
	SearchByTags(ctx context.Context, req FeedRequest) ([]*PostView, error)
	CountByTags(ctx context.Context, tags []string) (int, error)

	Search(ctx context.Context, req SearchRequest) ([]*PostView, error)
	CountSearch(ctx context.Context, req SearchRequest) (int, error)

	AllTags(ctx context.Context) ([]TagCount, error)
	TrendingTags(ctx context.Context) ([]TagCount, error)

	// ListByAuthor pages through userID's own posts, drafts included on request
	ListByAuthor(ctx context.Context, userID string, req AuthorPostsRequest) ([]*PostView, error)
	CountByAuthor(ctx context.Context, userID string, req AuthorPostsRequest) (int, error)

	// InvalidateTrending drops the cached trending feed so the next
	// Trending call recomputes it from current counters
	InvalidateTrending()
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a post and fills in ID, PublishedAt and UpdatedAt
	Create(ctx context.Context, post *Post) error

	GetByBlogID(ctx context.Context, blogID string) (*Post, error)

	// Update rewrites the editable fields of the post with post.ID
	Update(ctx context.Context, post *Post) error

	// Delete removes the post; comments, likes and notifications cascade
	Delete(ctx context.Context, id string) error

	IncrementReads(ctx context.Context, id string) error

	// GetView loads a post with its content and author
	GetView(ctx context.Context, blogID string) (*PostView, error)

	// GetViews loads the listed posts without content, in no particular order
	GetViews(ctx context.Context, ids []string) ([]*PostView, error)

	List(ctx context.Context, filter Filter, sortBy SortBy, limit, offset int) ([]*PostView, error)
	Count(ctx context.Context, filter Filter) (int, error)

	// Snapshots returns the ranking input of every published post
	Snapshots(ctx context.Context) ([]ranking.Snapshot, error)

	// TopTags counts tags over published posts, most used first
	TopTags(ctx context.Context, limit int) ([]TagCount, error)
}

// AuthorCounter is the slice of the user store that posts need
type AuthorCounter interface {
	AdjustTotalPosts(ctx context.Context, userID string, delta int) error
	IncrementTotalReads(ctx context.Context, userID string) error
}
