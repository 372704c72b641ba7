package likes

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

type likeService struct {
	repo          Repository
	posts         PostCounter
	notifications NotificationWriter
	tx            Transactor
	trending      TrendingInvalidator
	logger        *slog.Logger
}

// Option configures optional likeService behavior
type Option func(*likeService)

// WithTrendingInvalidator registers a cache to drop whenever a like changes
// a post's counters
func WithTrendingInvalidator(inv TrendingInvalidator) Option {
	return func(s *likeService) { s.trending = inv }
}

// NewService creates a new like service instance
func NewService(repo Repository, posts PostCounter, notifs NotificationWriter, tx Transactor, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &likeService{
		repo:          repo,
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

func (s *likeService) ToggleLike(ctx context.Context, userID, postID string, currentlyLiked bool) (*ToggleResult, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, ErrInvalidPost
	}

	var changed bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		author, err := s.posts.GetPostAuthor(ctx, postID)
		if err != nil {
			return err
		}

		if currentlyLiked {
			changed, err = s.unlike(ctx, userID, postID)
		} else {
			changed, err = s.like(ctx, userID, postID, author)
		}
		return err
	})
	if err != nil {
		if !apperr.IsNotFound(err) {
			s.logger.Error("failed to toggle like", "error", err, "post_id", postID, "user_id", userID)
		}
		return nil, apperr.Upstream("toggle like", err)
	}

	if changed && s.trending != nil {
		s.trending.InvalidateTrending()
	}
	return &ToggleResult{Liked: !currentlyLiked}, nil
}

// like reports whether a new like was stored
func (s *likeService) like(ctx context.Context, userID, postID, author string) (bool, error) {
	inserted, err := s.repo.Insert(ctx, userID, postID)
	if err != nil || !inserted {
		return false, err
	}

	if err := s.posts.AdjustLikes(ctx, postID, 1); err != nil {
		return false, err
	}

	if author == userID {
		return true, nil
	}
	return true, s.notifications.Create(ctx, &notifications.Notification{
		Type:        notifications.TypeLike,
		PostID:      postID,
		RecipientID: author,
		ActorID:     userID,
	})
}

func (s *likeService) unlike(ctx context.Context, userID, postID string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, userID, postID)
	if err != nil || !deleted {
		return false, err
	}

	if err := s.posts.AdjustLikes(ctx, postID, -1); err != nil {
		return false, err
	}
	return true, s.notifications.DeleteLike(ctx, userID, postID)
}

func (s *likeService) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	if strings.TrimSpace(postID) == "" {
		return false, ErrInvalidPost
	}

	liked, err := s.repo.Exists(ctx, userID, postID)
	if err != nil {
		return false, apperr.Upstream("check like", err)
	}
	return liked, nil
}
