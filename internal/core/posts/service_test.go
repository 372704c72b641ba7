package posts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/ranking"
)

// memRepo keeps posts and author counters in memory. List and Count only
// record their arguments; the SQL behind them is covered by the postgres tests.
type memRepo struct {
	posts        map[string]*Post
	totalPosts   map[string]int
	totalReads   map[string]int
	seq          int
	snapshotHits int
	lastFilter   Filter
	lastSort     SortBy
	lastLimit    int
	lastOffset   int
	failUpdate   error
	// blogIDTaken fails that many Create calls with ErrBlogIDTaken
	blogIDTaken  int
	triedBlogIDs []string
}

func newMemRepo() *memRepo {
	return &memRepo{
		posts:      make(map[string]*Post),
		totalPosts: make(map[string]int),
		totalReads: make(map[string]int),
	}
}

func (m *memRepo) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	posts := make(map[string]*Post, len(m.posts))
	for k, v := range m.posts {
		p := *v
		posts[k] = &p
	}
	totalPosts := make(map[string]int, len(m.totalPosts))
	for k, v := range m.totalPosts {
		totalPosts[k] = v
	}
	totalReads := make(map[string]int, len(m.totalReads))
	for k, v := range m.totalReads {
		totalReads[k] = v
	}

	if err := fn(ctx); err != nil {
		m.posts, m.totalPosts, m.totalReads = posts, totalPosts, totalReads
		return err
	}
	return nil
}

func (m *memRepo) Create(ctx context.Context, post *Post) error {
	m.triedBlogIDs = append(m.triedBlogIDs, post.BlogID)
	if m.blogIDTaken > 0 {
		m.blogIDTaken--
		return ErrBlogIDTaken
	}
	m.seq++
	post.ID = fmt.Sprintf("post-%d", m.seq)
	post.PublishedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	post.UpdatedAt = post.PublishedAt
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *memRepo) GetByBlogID(ctx context.Context, blogID string) (*Post, error) {
	for _, p := range m.posts {
		if p.BlogID == blogID {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) Update(ctx context.Context, post *Post) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

func (m *memRepo) IncrementReads(ctx context.Context, id string) error {
	m.posts[id].Activity.TotalReads++
	return nil
}

func (m *memRepo) view(p *Post) *PostView {
	return &PostView{
		PublishedAt: p.PublishedAt,
		ID:          p.ID,
		BlogID:      p.BlogID,
		Title:       p.Title,
		AuthorID:    p.AuthorID,
		Tags:        p.Tags,
		Activity:    p.Activity,
		Draft:       p.Draft,
	}
}

func (m *memRepo) GetView(ctx context.Context, blogID string) (*PostView, error) {
	p, err := m.GetByBlogID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	v := m.view(p)
	v.Content = &p.Content
	return v, nil
}

func (m *memRepo) GetViews(ctx context.Context, ids []string) ([]*PostView, error) {
	var views []*PostView
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			views = append(views, m.view(p))
		}
	}
	return views, nil
}

func (m *memRepo) List(ctx context.Context, filter Filter, sortBy SortBy, limit, offset int) ([]*PostView, error) {
	m.lastFilter, m.lastSort, m.lastLimit, m.lastOffset = filter, sortBy, limit, offset
	return []*PostView{}, nil
}

func (m *memRepo) Count(ctx context.Context, filter Filter) (int, error) {
	m.lastFilter = filter
	return 7, nil
}

func (m *memRepo) Snapshots(ctx context.Context) ([]ranking.Snapshot, error) {
	m.snapshotHits++
	var out []ranking.Snapshot
	for _, p := range m.posts {
		if !p.Draft {
			out = append(out, p.Snapshot())
		}
	}
	return out, nil
}

func (m *memRepo) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	m.lastLimit = limit
	return []TagCount{{Tag: "go", Count: 3}}, nil
}

func (m *memRepo) AdjustTotalPosts(ctx context.Context, userID string, delta int) error {
	m.totalPosts[userID] += delta
	return nil
}

func (m *memRepo) IncrementTotalReads(ctx context.Context, userID string) error {
	m.totalReads[userID]++
	return nil
}

var testNow = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func newTestService(repo *memRepo, opts ...Option) Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewPostService(repo, repo, repo, nil, opts...)
}

func TestCreatePost_Published(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	resp, err := svc.CreatePost(context.Background(), "author", publishable())
	require.NoError(t, err)

	post, err := repo.GetByBlogID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", post.AuthorID)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.False(t, post.Draft)
	assert.Equal(t, 1, repo.totalPosts["author"])
}

func TestCreatePost_DraftDoesNotCount(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	_, err := svc.CreatePost(context.Background(), "author", CreatePostRequest{Title: "Later", Draft: true})
	require.NoError(t, err)
	assert.Zero(t, repo.totalPosts["author"])
}

func TestCreatePost_ValidationCreatesNothing(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	req := publishable()
	req.Banner = ""
	_, err := svc.CreatePost(context.Background(), "author", req)
	assert.ErrorIs(t, err, ErrBannerRequired)
	assert.Empty(t, repo.posts)
}

func TestCreatePost_RetriesBlogIDCollision(t *testing.T) {
	repo := newMemRepo()
	repo.blogIDTaken = 1
	svc := newTestService(repo)

	resp, err := svc.CreatePost(context.Background(), "author", publishable())
	require.NoError(t, err)

	require.Len(t, repo.triedBlogIDs, 2)
	assert.NotEqual(t, repo.triedBlogIDs[0], repo.triedBlogIDs[1])
	assert.Equal(t, repo.triedBlogIDs[1], resp.ID)
	assert.Equal(t, 1, repo.totalPosts["author"])
}

func TestCreatePost_RepeatedCollisionIsConflict(t *testing.T) {
	repo := newMemRepo()
	repo.blogIDTaken = 2
	svc := newTestService(repo)

	_, err := svc.CreatePost(context.Background(), "author", publishable())
	assert.ErrorIs(t, err, ErrBlogIDTaken)
	assert.True(t, apperr.IsConflict(err))
	assert.Len(t, repo.triedBlogIDs, 1+blogIDRetries)
	assert.Empty(t, repo.posts)
	assert.Zero(t, repo.totalPosts["author"])
}

func TestUpdatePost_DraftTransitions(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.CreatePost(ctx, "author", CreatePostRequest{Title: "Draft", Draft: true})
	require.NoError(t, err)

	req := publishable()
	req.ID = resp.ID
	updated, err := svc.CreatePost(ctx, "author", req)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, updated.ID, "updates keep the public id")
	assert.Equal(t, 1, repo.totalPosts["author"])

	// publishing again changes nothing
	_, err = svc.CreatePost(ctx, "author", req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.totalPosts["author"])

	back := CreatePostRequest{ID: resp.ID, Title: "Draft again", Draft: true}
	_, err = svc.CreatePost(ctx, "author", back)
	require.NoError(t, err)
	assert.Zero(t, repo.totalPosts["author"])

	post, _ := repo.GetByBlogID(ctx, resp.ID)
	assert.Equal(t, "Draft again", post.Title)
	assert.True(t, post.Draft)
}

func TestUpdatePost_OwnershipAndMissing(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.CreatePost(ctx, "author", publishable())
	require.NoError(t, err)

	req := publishable()
	req.ID = resp.ID
	req.Title = "Hijacked"
	_, err = svc.CreatePost(ctx, "intruder", req)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, apperr.IsPermission(err))

	post, _ := repo.GetByBlogID(ctx, resp.ID)
	assert.Equal(t, "Hello World", post.Title)

	req.ID = "missing"
	_, err = svc.CreatePost(ctx, "author", req)
	assert.True(t, IsNotFound(err))
}

func TestUpdatePost_FailureRollsBackCounter(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.CreatePost(ctx, "author", CreatePostRequest{Title: "Draft", Draft: true})
	require.NoError(t, err)

	repo.failUpdate = errors.New("connection reset")
	req := publishable()
	req.ID = resp.ID
	_, err = svc.CreatePost(ctx, "author", req)
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))
	assert.Zero(t, repo.totalPosts["author"])
}

func TestGetPost_CountsReads(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.CreatePost(ctx, "author", publishable())
	require.NoError(t, err)

	view, err := svc.GetPost(ctx, "", GetPostRequest{BlogID: resp.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Activity.TotalReads)
	require.NotNil(t, view.Content)
	assert.Len(t, view.Content.Blocks, 1)
	assert.Equal(t, 1, repo.totalReads["author"])

	view, err = svc.GetPost(ctx, "author", GetPostRequest{BlogID: resp.ID, Mode: ReadModeEdit})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Activity.TotalReads, "edit mode is not a read")
	assert.Equal(t, 1, repo.totalReads["author"])
}

func TestGetPost_DraftVisibility(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.CreatePost(ctx, "author", CreatePostRequest{Title: "Secret", Draft: true})
	require.NoError(t, err)

	_, err = svc.GetPost(ctx, "", GetPostRequest{BlogID: resp.ID, Draft: true})
	assert.ErrorIs(t, err, ErrDraftAccess)

	_, err = svc.GetPost(ctx, "reader", GetPostRequest{BlogID: resp.ID, Draft: true})
	assert.ErrorIs(t, err, ErrDraftAccess)

	_, err = svc.GetPost(ctx, "author", GetPostRequest{BlogID: resp.ID})
	assert.ErrorIs(t, err, ErrDraftAccess)
	assert.Zero(t, repo.totalReads["author"], "refused reads are not counted")

	view, err := svc.GetPost(ctx, "author", GetPostRequest{BlogID: resp.ID, Draft: true, Mode: ReadModeEdit})
	require.NoError(t, err)
	assert.Equal(t, "Secret", view.Title)
}

func TestGetPost_NotFound(t *testing.T) {
	svc := newTestService(newMemRepo())
	_, err := svc.GetPost(context.Background(), "", GetPostRequest{BlogID: "nope"})
	assert.True(t, IsNotFound(err))
}

func TestDeletePost(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	published, err := svc.CreatePost(ctx, "author", publishable())
	require.NoError(t, err)
	draft, err := svc.CreatePost(ctx, "author", CreatePostRequest{Title: "Draft", Draft: true})
	require.NoError(t, err)
	require.Equal(t, 1, repo.totalPosts["author"])

	err = svc.DeletePost(ctx, "intruder", published.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Len(t, repo.posts, 2)

	require.NoError(t, svc.DeletePost(ctx, "author", draft.ID))
	assert.Equal(t, 1, repo.totalPosts["author"], "drafts were never counted")

	require.NoError(t, svc.DeletePost(ctx, "author", published.ID))
	assert.Zero(t, repo.totalPosts["author"])
	assert.Empty(t, repo.posts)

	assert.True(t, IsNotFound(svc.DeletePost(ctx, "author", published.ID)))
}

func seedActivity(t *testing.T, repo *memRepo, svc Service, title string, likes, comments, reads int) string {
	t.Helper()
	req := publishable()
	req.Title = title
	resp, err := svc.CreatePost(context.Background(), "author", req)
	require.NoError(t, err)
	p, err := repo.GetByBlogID(context.Background(), resp.ID)
	require.NoError(t, err)
	repo.posts[p.ID].Activity = Activity{TotalLikes: likes, TotalComments: comments, TotalReads: reads}
	return p.ID
}

func TestTrending_RanksAndCaches(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	quiet := seedActivity(t, repo, svc, "Quiet", 0, 0, 10)
	popular := seedActivity(t, repo, svc, "Popular", 10, 5, 100)
	liked := seedActivity(t, repo, svc, "Liked", 5, 0, 0)
	_, err := svc.CreatePost(ctx, "author", CreatePostRequest{Title: "Hidden draft", Draft: true})
	require.NoError(t, err)

	got, err := svc.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{popular, liked, quiet}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 1, repo.snapshotHits)

	_, err = svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.snapshotHits, "second call is served from cache")

	// a new post invalidates the cache
	seedActivity(t, repo, svc, "Fresh", 100, 0, 0)
	got, err = svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.snapshotHits)
	assert.Len(t, got, 4)
}

func TestTrending_InvalidateRecomputesFromCounters(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first := seedActivity(t, repo, svc, "First", 5, 0, 0)
	second := seedActivity(t, repo, svc, "Second", 1, 0, 0)

	got, err := svc.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0].ID)

	// counters move without a post being created or deleted
	repo.posts[second].Activity.TotalLikes = 50

	got, err = svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got[0].ID, "cached until invalidated")

	svc.InvalidateTrending()
	got, err = svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, 2, repo.snapshotHits)
}

func TestTrending_LimitAndNoCache(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, WithTrendingTTL(0))
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		seedActivity(t, repo, svc, fmt.Sprintf("Post %d", i), i, 0, 0)
	}

	got, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, got, ranking.DefaultLimit)

	_, err = svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.snapshotHits)
}

func TestTrending_Empty(t *testing.T) {
	got, err := newTestService(newMemRepo()).Trending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLatest_PagingSortAndDates(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Latest(ctx, FeedRequest{Page: 3, SortBy: "likes", DateFrom: "2025-01-01", DateTo: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, SortLikes, repo.lastSort)
	assert.Equal(t, PageSize, repo.lastLimit)
	assert.Equal(t, 10, repo.lastOffset)
	require.NotNil(t, repo.lastFilter.To)
	assert.Equal(t, 31, repo.lastFilter.To.Day())
	assert.False(t, repo.lastFilter.Draft)

	_, err = svc.Latest(ctx, FeedRequest{Page: 0})
	require.NoError(t, err)
	assert.Zero(t, repo.lastOffset)
	assert.Equal(t, SortLatest, repo.lastSort)

	_, err = svc.Latest(ctx, FeedRequest{Page: 1, DateFrom: "01/01/2025", DateTo: "2025-02-01"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSearchByTags(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.SearchByTags(ctx, FeedRequest{Tags: []string{" ", ""}})
	assert.ErrorIs(t, err, ErrNoSearchTags)

	_, err = svc.SearchByTags(ctx, FeedRequest{Tags: []string{"Go", "Rust"}, Page: 2, SortBy: "comments"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, repo.lastFilter.AnyTags)
	assert.Equal(t, SortComments, repo.lastSort)
	assert.Equal(t, PageSize, repo.lastOffset)

	n, err := svc.CountByTags(ctx, []string{"GO"})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []string{"go"}, repo.lastFilter.AnyTags)

	_, err = svc.CountByTags(ctx, nil)
	assert.ErrorIs(t, err, ErrNoSearchTags)
}

func TestSearch_Limits(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Search(ctx, SearchRequest{Query: "go", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, PageSize, repo.lastLimit)
	assert.Equal(t, PageSize, repo.lastOffset)

	_, err = svc.Search(ctx, SearchRequest{Tag: "go", Page: 2, Limit: 500, EliminateBlog: "self"})
	require.NoError(t, err)
	assert.Equal(t, MaxSearchLimit, repo.lastLimit)
	assert.Equal(t, MaxSearchLimit, repo.lastOffset)
	assert.Equal(t, "self", repo.lastFilter.ExcludeBlogID)

	_, err = svc.Search(ctx, SearchRequest{Page: 1})
	assert.ErrorIs(t, err, ErrNoSearchCriteria)

	_, err = svc.CountSearch(ctx, SearchRequest{})
	assert.ErrorIs(t, err, ErrNoSearchCriteria)
}

func TestListByAuthor_DeletedDocCountShiftsWindow(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ListByAuthor(ctx, "author", AuthorPostsRequest{Page: 2, DeletedDocCount: 2, Draft: true, Query: " intro "})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.lastOffset)
	assert.Equal(t, Filter{AuthorID: "author", Query: "intro", TitleOnly: true, Draft: true}, repo.lastFilter)

	_, err = svc.ListByAuthor(ctx, "author", AuthorPostsRequest{Page: 1, DeletedDocCount: 4})
	require.NoError(t, err)
	assert.Zero(t, repo.lastOffset)

	n, err := svc.CountByAuthor(ctx, "author", AuthorPostsRequest{Draft: false})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestTags(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	_, err := svc.AllTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AllTagsLimit, repo.lastLimit)

	tags, err := svc.TrendingTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TrendingTagsLimit, repo.lastLimit)
	assert.Equal(t, []TagCount{{Tag: "go", Count: 3}}, tags)
}
