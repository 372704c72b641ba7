package comments

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
	"github.com/minhchau-creator/blogger.com/internal/core/plaintext"
)

// commentService implements the Service interface
type commentService struct {
	commentRepo   Repository
	posts         PostStore
	notifications NotificationWriter
	tx            Transactor
	trending      TrendingInvalidator
	logger        *slog.Logger
}

// Option configures optional commentService behavior
type Option func(*commentService)

// WithTrendingInvalidator registers a cache to drop after each new comment
func WithTrendingInvalidator(inv TrendingInvalidator) Option {
	return func(s *commentService) { s.trending = inv }
}

// NewCommentService creates a new comment service instance
func NewCommentService(commentRepo Repository, posts PostStore, notifs NotificationWriter, tx Transactor, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &commentService{
		commentRepo:   commentRepo,
		posts:         posts,
		notifications: notifs,
		tx:            tx,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validateCommentContent cleans the text and enforces the length limits
func validateCommentContent(text string) (string, error) {
	text = plaintext.Clean(text)
	if text == "" {
		return "", ErrContentEmpty
	}
	if plaintext.Len(text) > maxCommentGraphemes {
		return "", ErrContentTooLong
	}
	return text, nil
}

func (s *commentService) AddComment(ctx context.Context, userID string, req AddCommentRequest) (*AddCommentResult, error) {
	text, err := validateCommentContent(req.Comment)
	if err != nil {
		return nil, err
	}

	var parentID string
	if req.ReplyingTo != nil {
		parentID = strings.TrimSpace(*req.ReplyingTo)
	}

	comment := &Comment{
		PostID:   req.PostID,
		AuthorID: userID,
		Text:     text,
		Children: []string{},
	}
	if parentID != "" {
		comment.ParentID = &parentID
		comment.IsReply = true
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		postAuthor, err := s.posts.GetPostAuthor(ctx, req.PostID)
		if err != nil {
			return err
		}
		comment.PostAuthorID = postAuthor

		notification := &notifications.Notification{
			Type:        notifications.TypeComment,
			PostID:      req.PostID,
			RecipientID: postAuthor,
			ActorID:     userID,
		}

		if comment.IsReply {
			parent, err := s.commentRepo.GetByID(ctx, parentID)
			if err != nil {
				if apperr.IsNotFound(err) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.PostID != req.PostID {
				return ErrParentOnOtherPost
			}

			notification.Type = notifications.TypeReply
			notification.RecipientID = parent.AuthorID
			notification.RepliedOnCommentID = &parent.ID
		}

		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return err
		}

		if comment.IsReply {
			if err := s.commentRepo.AppendChild(ctx, parentID, comment.ID); err != nil {
				return err
			}
		}

		if err := s.posts.IncrementComments(ctx, req.PostID, !comment.IsReply); err != nil {
			return err
		}

		if notification.RecipientID != userID {
			notification.CommentID = &comment.ID
			if err := s.notifications.Create(ctx, notification); err != nil {
				return err
			}
		}

		if comment.IsReply && req.NotificationID != nil && *req.NotificationID != "" {
			if err := s.notifications.SetReply(ctx, *req.NotificationID, comment.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !apperr.IsNotFound(err) && !apperr.IsValidation(err) {
			s.logger.Error("failed to add comment", "error", err, "post_id", req.PostID, "user_id", userID)
		}
		return nil, apperr.Upstream("add comment", err)
	}

	if s.trending != nil {
		s.trending.InvalidateTrending()
	}

	s.logger.Info("comment added",
		"comment_id", comment.ID,
		"post_id", comment.PostID,
		"is_reply", comment.IsReply)

	return &AddCommentResult{
		ID:          comment.ID,
		Comment:     comment.Text,
		CommentedAt: comment.CreatedAt,
		UserID:      userID,
		Children:    []string{},
	}, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	if strings.TrimSpace(commentID) == "" {
		return ErrCommentNotFound
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		comment, err := s.commentRepo.GetByID(ctx, commentID)
		if err != nil {
			return err
		}

		if userID != comment.AuthorID && userID != comment.PostAuthorID {
			return ErrNotAuthorized
		}

		if comment.IsDeleted {
			return nil
		}
		return s.commentRepo.SoftDelete(ctx, commentID, DeletedCommentText)
	})
	if err != nil {
		return apperr.Upstream("delete comment", err)
	}

	s.logger.Info("comment deleted", "comment_id", commentID, "deleted_by", userID)
	return nil
}

// clampPage bounds a skip/limit pair to [0, max]
func clampPage(skip, limit, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > max {
		limit = max
	}
	return skip, limit
}

func (s *commentService) FetchTopLevelComments(ctx context.Context, postID string, skip, limit int) ([]*CommentView, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, ErrPostNotFound
	}
	skip, limit = clampPage(skip, limit, DefaultTopLevelPageSize)

	views, err := s.commentRepo.ListTopLevel(ctx, postID, limit, skip)
	if err != nil {
		return nil, apperr.Upstream("list comments", err)
	}
	for _, v := range views {
		v.Depth = 0
	}
	return views, nil
}

func (s *commentService) FetchReplies(ctx context.Context, commentID string, skip, limit, parentDepth int) ([]*CommentView, error) {
	if strings.TrimSpace(commentID) == "" {
		return nil, ErrCommentNotFound
	}
	if parentDepth < 0 {
		parentDepth = 0
	}
	skip, limit = clampPage(skip, limit, DefaultRepliesPerParent)

	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, apperr.Upstream("get comment", err)
	}

	views, err := s.commentRepo.ListReplies(ctx, commentID, limit, skip)
	if err != nil {
		return nil, apperr.Upstream("list replies", err)
	}
	for _, v := range views {
		v.Depth = parentDepth + 1
	}
	return views, nil
}
