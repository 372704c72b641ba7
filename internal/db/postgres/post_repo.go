package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"github.com/minhchau-creator/blogger.com/internal/core/posts"
	"github.com/minhchau-creator/blogger.com/internal/core/ranking"
)

// PostRepo stores posts. It also serves the post counters used by likes and
// comments.
type PostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

// sortClauses whitelists the ORDER BY of each feed sort
var sortClauses = map[posts.SortBy]string{
	posts.SortLatest:   "p.published_at DESC, p.id",
	posts.SortLikes:    "p.total_likes DESC, p.published_at DESC, p.id",
	posts.SortComments: "p.total_comments DESC, p.published_at DESC, p.id",
}

const postViewColumns = `
	p.id, p.blog_id, p.title, p.des, p.banner, p.tags, p.author_id, p.draft,
	p.total_likes, p.total_comments, p.total_reads, p.total_parent_comments,
	p.published_at, u.fullname, u.username, u.profile_img`

func (r *PostRepo) Create(ctx context.Context, post *posts.Post) error {
	content, err := json.Marshal(post.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `
		INSERT INTO posts (blog_id, title, des, content, banner, tags, author_id, draft)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, published_at, updated_at`

	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		post.BlogID, post.Title, post.Description, string(content), post.Banner,
		pq.Array(nonNilTags(post.Tags)), post.AuthorID, post.Draft,
	).Scan(&post.ID, &post.PublishedAt, &post.UpdatedAt)
	if err != nil {
		return mapPostErr(err, "create post")
	}
	return nil
}

// mapPostErr turns constraint violations into domain errors
func mapPostErr(err error, op string) error {
	switch {
	case isUniqueViolation(err, "posts_blog_id_key"):
		return posts.ErrBlogIDTaken
	case isCheckViolation(err, "posts_des_length"):
		return posts.ErrDescription
	case isCheckViolation(err, "posts_tags_max"):
		return posts.ErrTooManyTags
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// nonNilTags avoids writing NULL into the NOT NULL tags column
func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *PostRepo) GetByBlogID(ctx context.Context, blogID string) (*posts.Post, error) {
	query := `
		SELECT id, blog_id, title, des, content, banner, tags, author_id, draft,
			total_likes, total_comments, total_reads, total_parent_comments,
			published_at, updated_at
		FROM posts
		WHERE blog_id = $1`

	post := &posts.Post{}
	var content []byte
	err := conn(ctx, r.db).QueryRowContext(ctx, query, blogID).Scan(
		&post.ID, &post.BlogID, &post.Title, &post.Description, &content, &post.Banner,
		pq.Array(&post.Tags), &post.AuthorID, &post.Draft,
		&post.Activity.TotalLikes, &post.Activity.TotalComments, &post.Activity.TotalReads,
		&post.Activity.TotalParentComments, &post.PublishedAt, &post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if err := json.Unmarshal(content, &post.Content); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return post, nil
}

// Update rewrites the editable fields. Publishing a draft moves
// published_at to the time of publication.
func (r *PostRepo) Update(ctx context.Context, post *posts.Post) error {
	content, err := json.Marshal(post.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `
		UPDATE posts SET
			title = $2,
			des = $3,
			content = $4,
			banner = $5,
			tags = $6,
			published_at = CASE WHEN draft AND NOT $7 THEN NOW() ELSE published_at END,
			draft = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING published_at, updated_at`

	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		post.ID, post.Title, post.Description, string(content), post.Banner, pq.Array(nonNilTags(post.Tags)), post.Draft,
	).Scan(&post.PublishedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return posts.ErrNotFound
	}
	if err != nil {
		return mapPostErr(err, "update post")
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostRepo) IncrementReads(ctx context.Context, id string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE posts SET total_reads = total_reads + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment reads: %w", err)
	}
	return nil
}

func scanPostView(row rowScanner, extra ...any) (*posts.PostView, error) {
	view := &posts.PostView{}
	info := &view.Author.PersonalInfo
	dest := []any{
		&view.ID, &view.BlogID, &view.Title, &view.Description, &view.Banner,
		pq.Array(&view.Tags), &view.AuthorID, &view.Draft,
		&view.Activity.TotalLikes, &view.Activity.TotalComments, &view.Activity.TotalReads,
		&view.Activity.TotalParentComments, &view.PublishedAt,
		&info.Fullname, &info.Username, &info.ProfileImg,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	return view, nil
}

// GetView loads a post with its content and author
func (r *PostRepo) GetView(ctx context.Context, blogID string) (*posts.PostView, error) {
	query := `
		SELECT ` + postViewColumns + `, p.content
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.blog_id = $1`

	var content []byte
	view, err := scanPostView(conn(ctx, r.db).QueryRowContext(ctx, query, blogID), &content)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post view: %w", err)
	}

	view.Content = &posts.Content{}
	if err := json.Unmarshal(content, view.Content); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return view, nil
}

func (r *PostRepo) GetViews(ctx context.Context, ids []string) ([]*posts.PostView, error) {
	if len(ids) == 0 {
		return []*posts.PostView{}, nil
	}
	query := `
		SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ANY($1::uuid[])`

	return r.queryViews(ctx, query, pq.Array(ids))
}

func (r *PostRepo) queryViews(ctx context.Context, query string, args ...any) ([]*posts.PostView, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.PostView{}
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

// whereClause renders filter as a WHERE clause with positional arguments
func whereClause(filter posts.Filter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "p.draft = "+arg(filter.Draft))
	if filter.AuthorID != "" {
		conds = append(conds, "p.author_id::text = "+arg(filter.AuthorID))
	}
	if filter.Tag != "" {
		conds = append(conds, arg(filter.Tag)+" = ANY(p.tags)")
	}
	if len(filter.AnyTags) > 0 {
		conds = append(conds, "p.tags && "+arg(pq.Array(filter.AnyTags)))
	}
	if filter.ExcludeBlogID != "" {
		conds = append(conds, "p.blog_id <> "+arg(filter.ExcludeBlogID))
	}
	if filter.Query != "" {
		pattern := arg(likePattern(filter.Query))
		if filter.TitleOnly {
			conds = append(conds, "p.title ILIKE "+pattern)
		} else {
			conds = append(conds, fmt.Sprintf(
				"(p.title ILIKE %[1]s OR p.des ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE t ILIKE %[1]s))",
				pattern))
		}
	}
	if filter.From != nil {
		conds = append(conds, "p.published_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "p.published_at <= "+arg(*filter.To))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostRepo) List(ctx context.Context, filter posts.Filter, sortBy posts.SortBy, limit, offset int) ([]*posts.PostView, error) {
	order, ok := sortClauses[sortBy]
	if !ok {
		order = sortClauses[posts.SortLatest]
	}

	where, args := whereClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.author_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, postViewColumns, where, order, len(args)-1, len(args))

	return r.queryViews(ctx, query, args...)
}

func (r *PostRepo) Count(ctx context.Context, filter posts.Filter) (int, error) {
	where, args := whereClause(filter)
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (r *PostRepo) Snapshots(ctx context.Context) ([]ranking.Snapshot, error) {
	query := `
		SELECT id, published_at, total_likes, total_comments, total_reads
		FROM posts
		WHERE draft = FALSE`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []ranking.Snapshot
	for rows.Next() {
		var s ranking.Snapshot
		if err := rows.Scan(&s.ID, &s.PublishedAt, &s.TotalLikes, &s.TotalComments, &s.TotalReads); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return result, nil
}

func (r *PostRepo) TopTags(ctx context.Context, limit int) ([]posts.TagCount, error) {
	query := `
		SELECT tag, COUNT(*) AS uses
		FROM posts, unnest(tags) AS tag
		WHERE draft = FALSE
		GROUP BY tag
		ORDER BY uses DESC, tag
		LIMIT $1`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []posts.TagCount{}
	for rows.Next() {
		var tc posts.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		result = append(result, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return result, nil
}

// GetPostAuthor returns the author of a published or draft post
func (r *PostRepo) GetPostAuthor(ctx context.Context, postID string) (string, error) {
	var authorID string
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if err == sql.ErrNoRows || isInvalidID(err) {
		return "", posts.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get post author: %w", err)
	}
	return authorID, nil
}

// AdjustLikes adds delta to total_likes, never going below zero
func (r *PostRepo) AdjustLikes(ctx context.Context, postID string, delta int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE posts SET total_likes = GREATEST(total_likes + $2, 0) WHERE id = $1`, postID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust likes: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return posts.ErrNotFound
	}
	return nil
}

// IncrementComments bumps total_comments, and total_parent_comments for
// top-level comments
func (r *PostRepo) IncrementComments(ctx context.Context, postID string, topLevel bool) error {
	query := `
		UPDATE posts SET
			total_comments = total_comments + 1,
			total_parent_comments = total_parent_comments + CASE WHEN $2 THEN 1 ELSE 0 END
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, postID, topLevel)
	if err != nil {
		return fmt.Errorf("failed to increment comments: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return posts.ErrNotFound
	}
	return nil
}
