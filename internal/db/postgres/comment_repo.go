package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/minhchau-creator/blogger.com/internal/core/comments"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

const commentViewColumns = `
	c.id, c.post_id, c.post_author_id, c.author_id, c.text, c.parent_id, c.children,
	c.is_reply, c.is_deleted, c.created_at, u.fullname, u.username, u.profile_img`

// Create inserts a comment and fills in ID and CreatedAt
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) error {
	query := `
		INSERT INTO comments (post_id, post_author_id, author_id, text, parent_id, children, is_reply)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	children := comment.Children
	if children == nil {
		children = []string{}
	}

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		comment.PostID, comment.PostAuthorID, comment.AuthorID, comment.Text,
		comment.ParentID, pq.Array(children), comment.IsReply,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return comments.ErrPostNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	query := `
		SELECT id, post_id, post_author_id, author_id, text, parent_id, children,
			is_reply, is_deleted, created_at
		FROM comments
		WHERE id = $1`

	comment := &comments.Comment{}
	var parentID sql.NullString
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.PostAuthorID, &comment.AuthorID, &comment.Text,
		&parentID, pq.Array(&comment.Children), &comment.IsReply, &comment.IsDeleted, &comment.CreatedAt,
	)
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	comment.ParentID = nullString(parentID)
	return comment, nil
}

func (r *postgresCommentRepo) AppendChild(ctx context.Context, parentID, childID string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE comments SET children = array_append(children, $2::uuid) WHERE id = $1`, parentID, childID)
	if err != nil {
		return fmt.Errorf("failed to append child comment: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return comments.ErrParentNotFound
	}
	return nil
}

// SoftDelete keeps the row and its links so the thread stays intact
func (r *postgresCommentRepo) SoftDelete(ctx context.Context, id, placeholder string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE comments SET is_deleted = TRUE, text = $2 WHERE id = $1`, id, placeholder)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return comments.ErrCommentNotFound
	}
	return nil
}

func (r *postgresCommentRepo) ListTopLevel(ctx context.Context, postID string, limit, offset int) ([]*comments.CommentView, error) {
	query := `
		SELECT ` + commentViewColumns + `
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3`

	return r.listViews(ctx, query, postID, limit, offset)
}

func (r *postgresCommentRepo) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*comments.CommentView, error) {
	query := `
		SELECT ` + commentViewColumns + `
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.parent_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3`

	return r.listViews(ctx, query, parentID, limit, offset)
}

func (r *postgresCommentRepo) listViews(ctx context.Context, query string, args ...any) ([]*comments.CommentView, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []*comments.CommentView{}, nil
		}
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*comments.CommentView{}
	for rows.Next() {
		view := &comments.CommentView{}
		info := &view.CommentedBy.PersonalInfo
		var parentID sql.NullString
		err := rows.Scan(
			&view.ID, &view.PostID, &view.PostAuthor, &view.AuthorID, &view.Comment, &parentID,
			pq.Array(&view.Children), &view.IsReply, &view.IsDeleted, &view.CommentedAt,
			&info.Fullname, &info.Username, &info.ProfileImg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		view.ParentID = nullString(parentID)
		if view.Children == nil {
			view.Children = []string{}
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}
