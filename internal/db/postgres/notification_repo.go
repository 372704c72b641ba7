package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

type postgresNotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *sql.DB) notifications.Repository {
	return &postgresNotificationRepo{db: db}
}

// typeNames converts types for an ANY($n) filter; nil matches every type
func typeNames(types []notifications.Type) any {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return pq.Array(names)
}

// Create inserts a notification. A repeated like notification is ignored and
// leaves n.ID empty.
func (r *postgresNotificationRepo) Create(ctx context.Context, n *notifications.Notification) error {
	query := `
		INSERT INTO notifications (type, post_id, recipient_id, actor_id, comment_id, replied_on_comment_id, reply_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (actor_id, post_id) WHERE type = 'like' DO NOTHING
		RETURNING id, seen, created_at`

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		string(n.Type), n.PostID, n.RecipientID, n.ActorID, n.CommentID, n.RepliedOnCommentID, n.ReplyID,
	).Scan(&n.ID, &n.Seen, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepo) DeleteLike(ctx context.Context, actorID, postID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM notifications WHERE type = 'like' AND actor_id = $1 AND post_id = $2`, actorID, postID)
	if err != nil {
		return fmt.Errorf("failed to delete like notification: %w", err)
	}
	return nil
}

// SetReply links the notification to the reply. Only a notification addressed
// to the reply's author is touched; anything else is left alone.
func (r *postgresNotificationRepo) SetReply(ctx context.Context, notificationID, replyID string) error {
	query := `
		UPDATE notifications
		SET reply_id = $2
		WHERE id = $1
			AND recipient_id = (SELECT author_id FROM comments WHERE id = $2)`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, notificationID, replyID); err != nil {
		if isInvalidID(err) {
			return nil
		}
		return fmt.Errorf("failed to link reply to notification: %w", err)
	}
	return nil
}

// List returns the recipient's notifications newest first
func (r *postgresNotificationRepo) List(ctx context.Context, recipientID string, types []notifications.Type, limit, offset int) ([]*notifications.View, error) {
	query := `
		SELECT n.id, n.type, n.seen, n.created_at,
			p.id, p.blog_id, p.title, p.author_id,
			u.fullname, u.username, u.profile_img,
			c.id, c.text, rc.id, rc.text, rp.id, rp.text
		FROM notifications n
		JOIN posts p ON p.id = n.post_id
		JOIN users u ON u.id = n.actor_id
		LEFT JOIN comments c ON c.id = n.comment_id
		LEFT JOIN comments rc ON rc.id = n.replied_on_comment_id
		LEFT JOIN comments rp ON rp.id = n.reply_id
		WHERE n.recipient_id = $1
			AND n.actor_id <> $1
			AND ($2::text[] IS NULL OR n.type = ANY($2::text[]))
		ORDER BY n.created_at DESC, n.id
		LIMIT $3 OFFSET $4`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, recipientID, typeNames(types), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*notifications.View{}
	for rows.Next() {
		view := &notifications.View{}
		info := &view.User.PersonalInfo
		var commentID, commentText, repliedID, repliedText, replyID, replyText sql.NullString
		var typ string
		err := rows.Scan(
			&view.ID, &typ, &view.Seen, &view.CreatedAt,
			&view.Blog.ID, &view.Blog.BlogID, &view.Blog.Title, &view.Blog.Author,
			&info.Fullname, &info.Username, &info.ProfileImg,
			&commentID, &commentText, &repliedID, &repliedText, &replyID, &replyText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		view.Type = notifications.Type(typ)
		view.Comment = commentRef(commentID, commentText)
		view.RepliedOnComment = commentRef(repliedID, repliedText)
		view.Reply = commentRef(replyID, replyText)
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return result, nil
}

func commentRef(id, text sql.NullString) *notifications.CommentRef {
	if !id.Valid {
		return nil
	}
	return &notifications.CommentRef{ID: id.String, Comment: text.String}
}

func (r *postgresNotificationRepo) Count(ctx context.Context, recipientID string, types []notifications.Type) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = $1
			AND actor_id <> $1
			AND ($2::text[] IS NULL OR type = ANY($2::text[]))`

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, recipientID, typeNames(types)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *postgresNotificationRepo) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET seen = TRUE WHERE id = ANY($1::uuid[]) AND seen = FALSE`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark notifications seen: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepo) CountUnseen(ctx context.Context, recipientID string, types []notifications.Type) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = $1
			AND actor_id <> $1
			AND seen = FALSE
			AND ($2::text[] IS NULL OR type = ANY($2::text[]))`

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, recipientID, typeNames(types)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unseen notifications: %w", err)
	}
	return count, nil
}

func (r *postgresNotificationRepo) HasUnseen(ctx context.Context, recipientID string, types []notifications.Type) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM notifications
			WHERE recipient_id = $1
				AND actor_id <> $1
				AND seen = FALSE
				AND ($2::text[] IS NULL OR type = ANY($2::text[]))
		)`

	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, recipientID, typeNames(types)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unseen notifications: %w", err)
	}
	return exists, nil
}
