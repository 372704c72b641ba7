package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhchau-creator/blogger.com/internal/core/comments"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

func TestCommentRepo_Thread(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "poster")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author.ID, "thread")

	parent := &comments.Comment{PostID: post.ID, PostAuthorID: author.ID, AuthorID: reader.ID, Text: "first"}
	require.NoError(t, repo.Create(ctx, parent))
	assert.NotEmpty(t, parent.ID)

	reply := &comments.Comment{
		PostID: post.ID, PostAuthorID: author.ID, AuthorID: author.ID,
		Text: "thanks", ParentID: &parent.ID, IsReply: true,
	}
	require.NoError(t, repo.Create(ctx, reply))
	require.NoError(t, repo.AppendChild(ctx, parent.ID, reply.ID))

	stored, err := repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{reply.ID}, stored.Children)
	assert.Nil(t, stored.ParentID)

	top, err := repo.ListTopLevel(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, parent.ID, top[0].ID)
	assert.Equal(t, "reader", top[0].CommentedBy.PersonalInfo.Username)

	replies, err := repo.ListReplies(ctx, parent.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].ParentID)
	assert.Equal(t, parent.ID, *replies[0].ParentID)
	assert.True(t, replies[0].IsReply)

	require.NoError(t, repo.SoftDelete(ctx, parent.ID, comments.DeletedCommentText))
	stored, err = repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, comments.DeletedCommentText, stored.Text)
	assert.Equal(t, []string{reply.ID}, stored.Children, "links survive a soft delete")
}

func TestCommentRepo_Errors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "lonely")

	_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)

	err = repo.Create(ctx, &comments.Comment{
		PostID: "00000000-0000-0000-0000-000000000000", PostAuthorID: user.ID, AuthorID: user.ID, Text: "x",
	})
	assert.ErrorIs(t, err, comments.ErrPostNotFound)

	assert.ErrorIs(t, repo.SoftDelete(ctx, "00000000-0000-0000-0000-000000000000", "x"), comments.ErrCommentNotFound)
}

func TestLikeRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "likee")
	fan := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "likeable")

	inserted, err := repo.Insert(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, inserted, "second like is a no-op")

	liked, err := repo.Exists(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	deleted, err := repo.Delete(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.Insert(ctx, fan.ID, "00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
}

func TestNotificationRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "recipient")
	fan := createTestUser(t, db, "actor")
	post := createTestPost(t, db, author.ID, "noticed")

	like := &notifications.Notification{Type: notifications.TypeLike, PostID: post.ID, RecipientID: author.ID, ActorID: fan.ID}
	require.NoError(t, repo.Create(ctx, like))
	assert.NotEmpty(t, like.ID)

	again := &notifications.Notification{Type: notifications.TypeLike, PostID: post.ID, RecipientID: author.ID, ActorID: fan.ID}
	require.NoError(t, repo.Create(ctx, again))
	assert.Empty(t, again.ID, "duplicate like notification is ignored")

	comment := &comments.Comment{PostID: post.ID, PostAuthorID: author.ID, AuthorID: fan.ID, Text: "nice post"}
	require.NoError(t, commentRepo.Create(ctx, comment))
	commented := &notifications.Notification{
		Type: notifications.TypeComment, PostID: post.ID, RecipientID: author.ID, ActorID: fan.ID, CommentID: &comment.ID,
	}
	require.NoError(t, repo.Create(ctx, commented))

	all, err := repo.List(ctx, author.ID, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, notifications.TypeComment, all[0].Type)
	require.NotNil(t, all[0].Comment)
	assert.Equal(t, "nice post", all[0].Comment.Comment)
	assert.Equal(t, "actor", all[0].User.PersonalInfo.Username)
	assert.Equal(t, post.BlogID, all[0].Blog.BlogID)
	assert.Nil(t, all[1].Comment)

	likesOnly, err := repo.Count(ctx, author.ID, []notifications.Type{notifications.TypeLike})
	require.NoError(t, err)
	assert.Equal(t, 1, likesOnly)

	unseen, err := repo.CountUnseen(ctx, author.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, unseen)

	require.NoError(t, repo.MarkSeen(ctx, []string{like.ID}))
	has, err := repo.HasUnseen(ctx, author.ID, []notifications.Type{notifications.TypeLike})
	require.NoError(t, err)
	assert.False(t, has)
	has, err = repo.HasUnseen(ctx, author.ID, []notifications.Type{notifications.TypeComment})
	require.NoError(t, err)
	assert.True(t, has)

	// a reply by someone other than the recipient does not touch the notification
	stray := &comments.Comment{PostID: post.ID, PostAuthorID: author.ID, AuthorID: fan.ID, Text: "stray", ParentID: &comment.ID, IsReply: true}
	require.NoError(t, commentRepo.Create(ctx, stray))
	require.NoError(t, repo.SetReply(ctx, commented.ID, stray.ID))

	reply := &comments.Comment{PostID: post.ID, PostAuthorID: author.ID, AuthorID: author.ID, Text: "thank you", ParentID: &comment.ID, IsReply: true}
	require.NoError(t, commentRepo.Create(ctx, reply))
	require.NoError(t, repo.SetReply(ctx, commented.ID, reply.ID))

	all, err = repo.List(ctx, author.ID, []notifications.Type{notifications.TypeComment}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Reply)
	assert.Equal(t, reply.ID, all[0].Reply.ID)

	require.NoError(t, repo.DeleteLike(ctx, fan.ID, post.ID))
	count, err := repo.Count(ctx, author.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
