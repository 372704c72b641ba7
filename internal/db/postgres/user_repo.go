package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

// UserRepo stores users. Besides users.UserRepository it keeps the per-author
// counters for posts and serves notification settings.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `
	id, fullname, email, password_hash, username, bio, profile_img, social_links,
	total_posts, total_reads, notify_comments, notify_likes, notify_replies,
	joined_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	var socialLinks []byte
	err := row.Scan(
		&user.ID, &user.Fullname, &user.Email, &user.PasswordHash, &user.Username,
		&user.Bio, &user.ProfileImg, &socialLinks,
		&user.TotalPosts, &user.TotalReads,
		&user.NotificationSettings.Comments, &user.NotificationSettings.Likes, &user.NotificationSettings.Replies,
		&user.JoinedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(socialLinks) > 0 {
		if err := json.Unmarshal(socialLinks, &user.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}
	return user, nil
}

// mapUserErr turns constraint violations into domain errors
func mapUserErr(err error, op string) error {
	switch {
	case isUniqueViolation(err, "users_email_key"):
		return users.ErrEmailTaken
	case isUniqueViolation(err, "users_username_key"):
		return users.ErrUsernameTaken
	case isCheckViolation(err, "users_bio_length"):
		return users.ErrBioTooLong
	case err == sql.ErrNoRows, isInvalidID(err):
		return users.ErrUserNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Create inserts a new user into the users table
func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	links, err := json.Marshal(user.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		INSERT INTO users (fullname, email, password_hash, username, bio, profile_img, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_posts, total_reads, notify_comments, notify_likes, notify_replies, joined_at, updated_at`

	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		user.Fullname, user.Email, user.PasswordHash, user.Username, user.Bio, user.ProfileImg, string(links),
	).Scan(
		&user.ID, &user.TotalPosts, &user.TotalReads,
		&user.NotificationSettings.Comments, &user.NotificationSettings.Likes, &user.NotificationSettings.Replies,
		&user.JoinedAt, &user.UpdatedAt,
	)
	if err != nil {
		return mapUserErr(err, "create user")
	}
	return nil
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, mapUserErr(err, "get user by "+column)
	}
	return user, nil
}

// GetByID retrieves a user by id
func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername retrieves a user by username
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// Search matches usernames containing query, ignoring case
func (r *UserRepo) Search(ctx context.Context, query string, limit, offset int) ([]*users.User, error) {
	sqlQuery := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username ILIKE $1
		ORDER BY username
		LIMIT $2 OFFSET $3`

	rows, err := conn(ctx, r.db).QueryContext(ctx, sqlQuery, likePattern(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// UpdateProfile applies the non-nil fields of update
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, update users.ProfileUpdate) (*users.User, error) {
	var links any
	if update.SocialLinks != nil {
		encoded, err := json.Marshal(update.SocialLinks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode social links: %w", err)
		}
		links = string(encoded)
	}

	query := `
		UPDATE users SET
			fullname = COALESCE($2, fullname),
			username = COALESCE($3, username),
			bio = COALESCE($4, bio),
			profile_img = COALESCE($5, profile_img),
			social_links = COALESCE($6::jsonb, social_links),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query,
		id, update.Fullname, update.Username, update.Bio, update.ProfileImg, links))
	if err != nil {
		return nil, mapUserErr(err, "update profile")
	}
	return user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return mapUserErr(err, "update password")
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return users.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) GetNotificationSettings(ctx context.Context, id string) (*users.NotificationSettings, error) {
	settings := &users.NotificationSettings{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT notify_comments, notify_likes, notify_replies FROM users WHERE id = $1`, id,
	).Scan(&settings.Comments, &settings.Likes, &settings.Replies)
	if err != nil {
		return nil, mapUserErr(err, "get notification settings")
	}
	return settings, nil
}

func (r *UserRepo) UpdateNotificationSettings(ctx context.Context, id string, settings users.NotificationSettings) error {
	query := `
		UPDATE users
		SET notify_comments = $2, notify_likes = $3, notify_replies = $4, updated_at = NOW()
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, id, settings.Comments, settings.Likes, settings.Replies)
	if err != nil {
		return mapUserErr(err, "update notification settings")
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return users.ErrUserNotFound
	}
	return nil
}

// AdjustTotalPosts adds delta to the author's published post count, never below zero
func (r *UserRepo) AdjustTotalPosts(ctx context.Context, userID string, delta int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET total_posts = GREATEST(total_posts + $2, 0) WHERE id = $1`, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust total posts: %w", err)
	}
	return nil
}

func (r *UserRepo) IncrementTotalReads(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET total_reads = total_reads + 1 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment total reads: %w", err)
	}
	return nil
}
