package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &users.User{
		Fullname:     "Alice Nguyen",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Username:     "alice",
		SocialLinks:  users.SocialLinks{Github: "https://github.com/alice"},
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.JoinedAt.IsZero())
	assert.Equal(t, users.DefaultNotificationSettings, user.NotificationSettings)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "https://github.com/alice", byID.SocialLinks.Github)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	exists, err := repo.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepo_Create_Duplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "bob")

	err := repo.Create(ctx, &users.User{Fullname: "Bob", Email: "bob@example.com", PasswordHash: "h", Username: "bob2"})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	err = repo.Create(ctx, &users.User{Fullname: "Bob", Email: "other@example.com", PasswordHash: "h", Username: "bob"})
	assert.ErrorIs(t, err, users.ErrUsernameTaken)
}

func TestUserRepo_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestUserRepo_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "writer_one")
	createTestUser(t, db, "WriterTwo")
	createTestUser(t, db, "reader")

	found, err := repo.Search(ctx, "writer", 10, 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// underscore is matched literally
	found, err = repo.Search(ctx, "r_o", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "writer_one", found[0].Username)
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "carol")
	createTestUser(t, db, "dave")

	bio := "I write about Go"
	updated, err := repo.UpdateProfile(ctx, user.ID, users.ProfileUpdate{
		Bio:         &bio,
		SocialLinks: &users.SocialLinks{Website: "https://carol.dev"},
	})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "carol", updated.Username, "nil fields are kept")
	assert.Equal(t, "https://carol.dev", updated.SocialLinks.Website)

	taken := "dave"
	_, err = repo.UpdateProfile(ctx, user.ID, users.ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, users.ErrUsernameTaken)

	long := strings.Repeat("👍🏽", 101)
	_, err = repo.UpdateProfile(ctx, user.ID, users.ProfileUpdate{Bio: &long})
	assert.ErrorIs(t, err, users.ErrBioTooLong)
}

func TestUserRepo_PasswordAndSettings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "erin")

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", stored.PasswordHash)

	require.NoError(t, repo.UpdateNotificationSettings(ctx, user.ID, users.NotificationSettings{Comments: true}))
	settings, err := repo.GetNotificationSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, users.NotificationSettings{Comments: true}, *settings)

	err = repo.UpdatePassword(ctx, "00000000-0000-0000-0000-000000000000", "x")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestUserRepo_Counters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "frank")

	require.NoError(t, repo.AdjustTotalPosts(ctx, user.ID, 2))
	require.NoError(t, repo.AdjustTotalPosts(ctx, user.ID, -5))
	require.NoError(t, repo.IncrementTotalReads(ctx, user.ID))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalPosts, "never below zero")
	assert.Equal(t, 1, stored.TotalReads)
}

func TestOTPRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "gina")
	email := "gina@example.com"

	require.NoError(t, repo.Replace(ctx, email, "111111"))
	require.NoError(t, repo.Replace(ctx, email, "222222"))

	_, err := repo.Get(ctx, email, "111111")
	assert.Error(t, err, "replaced codes are gone")

	otp, err := repo.Get(ctx, email, "222222")
	require.NoError(t, err)
	assert.Nil(t, otp.VerifiedAt)

	_, err = repo.GetVerified(ctx, email)
	assert.Error(t, err)

	require.NoError(t, repo.MarkVerified(ctx, otp.ID))
	verified, err := repo.GetVerified(ctx, email)
	require.NoError(t, err)
	assert.NotNil(t, verified.VerifiedAt)

	require.NoError(t, repo.DeleteForEmail(ctx, email))
	_, err = repo.GetVerified(ctx, email)
	assert.Error(t, err)

	err = repo.Replace(ctx, "unknown@example.com", "333333")
	assert.ErrorIs(t, err, users.ErrEmailNotFound)
}
