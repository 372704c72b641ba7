package posts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/ranking"
)

// DefaultTrendingTTL is how long a computed trending feed is served from cache
const DefaultTrendingTTL = time.Minute

const trendingKey = "trending"

// blogIDRetries is how many times CreatePost regenerates a colliding blog id
const blogIDRetries = 1

type postService struct {
	repo     Repository
	authors  AuthorCounter
	tx       Transactor
	logger   *slog.Logger
	trending *expirable.LRU[string, []*PostView]
	now      func() time.Time
	ttl      time.Duration
}

// Option configures optional postService behavior
type Option func(*postService)

// WithClock replaces time.Now as the trending reference time
func WithClock(now func() time.Time) Option {
	return func(s *postService) { s.now = now }
}

// WithTrendingTTL sets the lifetime of the cached trending feed.
// A non-positive ttl disables the cache.
func WithTrendingTTL(ttl time.Duration) Option {
	return func(s *postService) { s.ttl = ttl }
}

// NewPostService creates a new post service
func NewPostService(repo Repository, authors AuthorCounter, tx Transactor, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &postService{
		repo:    repo,
		authors: authors,
		tx:      tx,
		logger:  logger,
		now:     time.Now,
		ttl:     DefaultTrendingTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		s.trending = expirable.NewLRU[string, []*PostView](1, nil, s.ttl)
	}
	return s
}

func (s *postService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*CreatePostResponse, error) {
	req, err := normalizeCreateRequest(req)
	if err != nil {
		return nil, err
	}

	var blogID string
	save := func(ctx context.Context) error {
		if req.ID != "" {
			blogID = req.ID
			return s.updatePost(ctx, authorID, req)
		}

		post := &Post{
			BlogID:      newBlogID(req.Title),
			Title:       req.Title,
			Description: req.Description,
			Banner:      req.Banner,
			Content:     req.Content,
			Tags:        req.Tags,
			AuthorID:    authorID,
			Draft:       req.Draft,
		}
		if err := s.repo.Create(ctx, post); err != nil {
			return err
		}
		blogID = post.BlogID

		if post.Draft {
			return nil
		}
		return s.authors.AdjustTotalPosts(ctx, authorID, 1)
	}

	// a failed insert aborts the transaction, so a fresh id needs a new one
	for attempt := 0; ; attempt++ {
		err = s.tx.WithinTx(ctx, save)
		if req.ID != "" || attempt >= blogIDRetries || !errors.Is(err, ErrBlogIDTaken) {
			break
		}
		s.logger.Warn("blog id collision, retrying", "author_id", authorID)
	}
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("failed to save post", "error", err, "author_id", authorID, "blog_id", req.ID)
		}
		return nil, apperr.Upstream("save post", err)
	}

	s.InvalidateTrending()
	s.logger.Info("post saved", "blog_id", blogID, "author_id", authorID, "draft", req.Draft)
	return &CreatePostResponse{ID: blogID}, nil
}

func (s *postService) updatePost(ctx context.Context, authorID string, req CreatePostRequest) error {
	post, err := s.repo.GetByBlogID(ctx, req.ID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return ErrNotOwner
	}

	wasDraft := post.Draft
	post.Title = req.Title
	post.Description = req.Description
	post.Banner = req.Banner
	post.Content = req.Content
	post.Tags = req.Tags
	post.Draft = req.Draft

	if err := s.repo.Update(ctx, post); err != nil {
		return err
	}

	switch {
	case wasDraft && !post.Draft:
		return s.authors.AdjustTotalPosts(ctx, authorID, 1)
	case !wasDraft && post.Draft:
		return s.authors.AdjustTotalPosts(ctx, authorID, -1)
	}
	return nil
}

func (s *postService) GetPost(ctx context.Context, viewerID string, req GetPostRequest) (*PostView, error) {
	blogID := strings.TrimSpace(req.BlogID)
	if blogID == "" {
		return nil, ErrNotFound
	}

	var view *PostView
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.repo.GetByBlogID(ctx, blogID)
		if err != nil {
			return err
		}
		if post.Draft && (!req.Draft || viewerID != post.AuthorID) {
			return ErrDraftAccess
		}

		if req.Mode != ReadModeEdit {
			if err := s.repo.IncrementReads(ctx, post.ID); err != nil {
				return err
			}
			if err := s.authors.IncrementTotalReads(ctx, post.AuthorID); err != nil {
				return err
			}
		}

		view, err = s.repo.GetView(ctx, blogID)
		return err
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("failed to get post", "error", err, "blog_id", blogID)
		}
		return nil, apperr.Upstream("get post", err)
	}
	return view, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, blogID string) error {
	blogID = strings.TrimSpace(blogID)
	if blogID == "" {
		return ErrNotFound
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.repo.GetByBlogID(ctx, blogID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return ErrNotOwner
		}

		if err := s.repo.Delete(ctx, post.ID); err != nil {
			return err
		}
		if post.Draft {
			return nil
		}
		return s.authors.AdjustTotalPosts(ctx, userID, -1)
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.Error("failed to delete post", "error", err, "blog_id", blogID)
		}
		return apperr.Upstream("delete post", err)
	}

	s.InvalidateTrending()
	s.logger.Info("post deleted", "blog_id", blogID, "user_id", userID)
	return nil
}

func (s *postService) Latest(ctx context.Context, req FeedRequest) ([]*PostView, error) {
	from, to, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, Filter{From: from, To: to}, ParseSortBy(req.SortBy), PageSize, pageOffset(req.Page, PageSize))
}

func (s *postService) CountLatest(ctx context.Context) (int, error) {
	return s.count(ctx, Filter{})
}

func (s *postService) Trending(ctx context.Context) ([]*PostView, error) {
	if s.trending != nil {
		if cached, ok := s.trending.Get(trendingKey); ok {
			return cached, nil
		}
	}

	snapshots, err := s.repo.Snapshots(ctx)
	if err != nil {
		s.logger.Error("failed to load trending candidates", "error", err)
		return nil, apperr.Upstream("trending posts", err)
	}

	top := ranking.Trending(snapshots, s.now(), ranking.DefaultLimit)
	if len(top) == 0 {
		return []*PostView{}, nil
	}

	ids := make([]string, len(top))
	for i, snap := range top {
		ids[i] = snap.ID
	}
	views, err := s.repo.GetViews(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load trending posts", "error", err)
		return nil, apperr.Upstream("trending posts", err)
	}

	byID := make(map[string]*PostView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	ordered := make([]*PostView, 0, len(top))
	for _, id := range ids {
		// a post deleted between the two reads is skipped
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}

	if s.trending != nil {
		s.trending.Add(trendingKey, ordered)
	}
	return ordered, nil
}

func (s *postService) SearchByTags(ctx context.Context, req FeedRequest) ([]*PostView, error) {
	tags := normalizeTags(req.Tags)
	if len(tags) == 0 {
		return nil, ErrNoSearchTags
	}
	from, to, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}
	filter := Filter{AnyTags: tags, From: from, To: to}
	return s.list(ctx, filter, ParseSortBy(req.SortBy), PageSize, pageOffset(req.Page, PageSize))
}

func (s *postService) CountByTags(ctx context.Context, tags []string) (int, error) {
	tags = normalizeTags(tags)
	if len(tags) == 0 {
		return 0, ErrNoSearchTags
	}
	return s.count(ctx, Filter{AnyTags: tags})
}

func (s *postService) Search(ctx context.Context, req SearchRequest) ([]*PostView, error) {
	filter, err := searchFilter(req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = PageSize
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	return s.list(ctx, filter, ParseSortBy(req.SortBy), limit, pageOffset(req.Page, limit))
}

func (s *postService) CountSearch(ctx context.Context, req SearchRequest) (int, error) {
	filter, err := searchFilter(req)
	if err != nil {
		return 0, err
	}
	return s.count(ctx, filter)
}

func (s *postService) AllTags(ctx context.Context) ([]TagCount, error) {
	return s.topTags(ctx, AllTagsLimit)
}

func (s *postService) TrendingTags(ctx context.Context) ([]TagCount, error) {
	return s.topTags(ctx, TrendingTagsLimit)
}

func (s *postService) topTags(ctx context.Context, limit int) ([]TagCount, error) {
	tags, err := s.repo.TopTags(ctx, limit)
	if err != nil {
		s.logger.Error("failed to count tags", "error", err)
		return nil, apperr.Upstream("count tags", err)
	}
	return tags, nil
}

func (s *postService) ListByAuthor(ctx context.Context, userID string, req AuthorPostsRequest) ([]*PostView, error) {
	offset := pageOffset(req.Page, PageSize) - req.DeletedDocCount
	if offset < 0 {
		offset = 0
	}
	return s.list(ctx, authorFilter(userID, req), SortLatest, PageSize, offset)
}

func (s *postService) CountByAuthor(ctx context.Context, userID string, req AuthorPostsRequest) (int, error) {
	return s.count(ctx, authorFilter(userID, req))
}

func authorFilter(userID string, req AuthorPostsRequest) Filter {
	return Filter{
		AuthorID:  userID,
		Query:     strings.TrimSpace(req.Query),
		TitleOnly: true,
		Draft:     req.Draft,
	}
}

func (s *postService) list(ctx context.Context, filter Filter, sortBy SortBy, limit, offset int) ([]*PostView, error) {
	views, err := s.repo.List(ctx, filter, sortBy, limit, offset)
	if err != nil {
		s.logger.Error("failed to list posts", "error", err)
		return nil, apperr.Upstream("list posts", err)
	}
	return views, nil
}

func (s *postService) count(ctx context.Context, filter Filter) (int, error) {
	n, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count posts", "error", err)
		return 0, apperr.Upstream("count posts", err)
	}
	return n, nil
}

func (s *postService) InvalidateTrending() {
	if s.trending != nil {
		s.trending.Purge()
	}
}

func isClientError(err error) bool {
	return apperr.IsNotFound(err) || apperr.IsPermission(err) || apperr.IsValidation(err)
}
