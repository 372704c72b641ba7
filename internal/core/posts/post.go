package posts

import (
	"context"
	"time"

	"github.com/minhchau-creator/blogger.com/internal/core/ranking"
	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

const (
	// PageSize is the page size of every post feed
	PageSize = 5

	// MaxSearchLimit caps the caller-chosen page size of Search
	MaxSearchLimit = 50

	// AllTagsLimit and TrendingTagsLimit size the tag statistics
	AllTagsLimit      = 50
	TrendingTagsLimit = 10

	// ReadModeEdit fetches a post for editing without counting a read
	ReadModeEdit = "edit"

	maxTags              = 10
	maxTagLength         = 20
	maxDescriptionLength = 200
	blogIDSuffixLength   = 21
)

// SortBy orders a post feed
type SortBy string

const (
	SortLatest   SortBy = "latest"
	SortLikes    SortBy = "likes"
	SortComments SortBy = "comments"
)

// ParseSortBy maps user input onto a known order. Anything unknown sorts by date.
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortLikes:
		return SortLikes
	case SortComments:
		return SortComments
	default:
		return SortLatest
	}
}

// Block is one typed block of the rich-text editor output
type Block struct {
	Data map[string]any `json:"data"`
	ID   string         `json:"id,omitempty"`
	Type string         `json:"type"`
}

// Content is the editor document stored with a post
type Content struct {
	Version string  `json:"version,omitempty"`
	Blocks  []Block `json:"blocks"`
	Time    int64   `json:"time,omitempty"`
}

// Activity holds a post's engagement counters
type Activity struct {
	TotalLikes          int `json:"total_likes" db:"total_likes"`
	TotalComments       int `json:"total_comments" db:"total_comments"`
	TotalReads          int `json:"total_reads" db:"total_reads"`
	TotalParentComments int `json:"total_parent_comments" db:"total_parent_comments"`
}

// Post is a blog post as stored
type Post struct {
	PublishedAt time.Time `db:"published_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Content     Content   `db:"content"`
	ID          string    `db:"id"`
	BlogID      string    `db:"blog_id"`
	Title       string    `db:"title"`
	Description string    `db:"des"`
	Banner      string    `db:"banner"`
	AuthorID    string    `db:"author_id"`
	Tags        []string  `db:"tags"`
	Activity    Activity
	Draft       bool `db:"draft"`
}

// Snapshot returns the ranking input of the post
func (p *Post) Snapshot() ranking.Snapshot {
	return ranking.Snapshot{
		PublishedAt:   p.PublishedAt,
		ID:            p.ID,
		TotalLikes:    p.Activity.TotalLikes,
		TotalComments: p.Activity.TotalComments,
		TotalReads:    p.Activity.TotalReads,
		Draft:         p.Draft,
	}
}

// PostView is a post joined with its author.
// Content is only loaded for single-post reads.
type PostView struct {
	PublishedAt time.Time     `json:"publishedAt"`
	Content     *Content      `json:"content,omitempty"`
	Author      users.Summary `json:"author"`
	ID          string        `json:"_id"`
	BlogID      string        `json:"blog_id"`
	Title       string        `json:"title"`
	Description string        `json:"des"`
	Banner      string        `json:"banner"`
	AuthorID    string        `json:"-"`
	Tags        []string      `json:"tags"`
	Activity    Activity      `json:"activity"`
	Draft       bool          `json:"draft"`
}

// TagCount is a tag with the number of published posts carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CreatePostRequest creates a post, or updates the post named by ID
type CreatePostRequest struct {
	Content     Content  `json:"content"`
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"des"`
	Banner      string   `json:"banner"`
	Tags        []string `json:"tags"`
	Draft       bool     `json:"draft"`
}

// CreatePostResponse carries the public id of the saved post
type CreatePostResponse struct {
	ID string `json:"id"`
}

// GetPostRequest reads one post.
// Draft must be set to read a draft, which only its author can do.
type GetPostRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
	Mode   string `json:"mode,omitempty"`
	Draft  bool   `json:"draft"`
}

// FeedRequest pages through published posts, optionally by tag and date range.
// Dates are YYYY-MM-DD or RFC 3339; the range only applies when both are set.
type FeedRequest struct {
	SortBy   string   `json:"sort_by,omitempty"`
	DateFrom string   `json:"dateFrom,omitempty"`
	DateTo   string   `json:"dateTo,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Page     int      `json:"page"`
}

// SearchRequest searches published posts by one of tag, query or author,
// tried in that order
type SearchRequest struct {
	Tag           string `json:"tag,omitempty"`
	Query         string `json:"query,omitempty"`
	Author        string `json:"author,omitempty"`
	EliminateBlog string `json:"eliminate_blog,omitempty"`
	SortBy        string `json:"sort_by,omitempty"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit,omitempty"`
}

// AuthorPostsRequest pages through the caller's own posts.
// DeletedDocCount shifts the window back after deletions on earlier pages.
type AuthorPostsRequest struct {
	Query           string `json:"query"`
	Page            int    `json:"page"`
	DeletedDocCount int    `json:"deletedDocCount,omitempty"`
	Draft           bool   `json:"draft"`
}

// DeletePostRequest names the post to delete
type DeletePostRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
}

// Filter selects posts in the repository. Zero fields don't filter.
type Filter struct {
	From          *time.Time
	To            *time.Time
	AuthorID      string
	Tag           string
	Query         string
	ExcludeBlogID string
	AnyTags       []string
	// TitleOnly restricts Query to the title
	TitleOnly bool
	Draft     bool
}

// Transactor runs fn inside a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
