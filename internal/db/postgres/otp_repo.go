package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

type postgresOTPRepo struct {
	db *sql.DB
}

// NewOTPRepository creates a new PostgreSQL password reset code repository
func NewOTPRepository(db *sql.DB) users.OTPRepository {
	return &postgresOTPRepo{db: db}
}

var errOTPNotFound = apperr.NotFound("otp", "")

// Replace drops earlier codes of the email and stores code
func (r *postgresOTPRepo) Replace(ctx context.Context, email, code string) error {
	query := `
		WITH removed AS (
			DELETE FROM password_reset_otps WHERE email = $1
		)
		INSERT INTO password_reset_otps (email, code) VALUES ($1, $2)`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, email, code); err != nil {
		if isForeignKeyViolation(err) {
			return users.ErrEmailNotFound
		}
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *postgresOTPRepo) scanOne(ctx context.Context, query string, args ...any) (*users.PasswordResetOTP, error) {
	otp := &users.PasswordResetOTP{}
	var verifiedAt sql.NullTime
	err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).
		Scan(&otp.ID, &otp.Email, &otp.Code, &otp.CreatedAt, &verifiedAt)
	if err == sql.ErrNoRows {
		return nil, errOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	if verifiedAt.Valid {
		otp.VerifiedAt = &verifiedAt.Time
	}
	return otp, nil
}

func (r *postgresOTPRepo) Get(ctx context.Context, email, code string) (*users.PasswordResetOTP, error) {
	return r.scanOne(ctx, `
		SELECT id, email, code, created_at, verified_at
		FROM password_reset_otps
		WHERE email = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1`, email, code)
}

func (r *postgresOTPRepo) GetVerified(ctx context.Context, email string) (*users.PasswordResetOTP, error) {
	return r.scanOne(ctx, `
		SELECT id, email, code, created_at, verified_at
		FROM password_reset_otps
		WHERE email = $1 AND verified_at IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1`, email)
}

func (r *postgresOTPRepo) MarkVerified(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE password_reset_otps SET verified_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return errOTPNotFound
	}
	return nil
}

func (r *postgresOTPRepo) DeleteForEmail(ctx context.Context, email string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM password_reset_otps WHERE email = $1`, email); err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}
