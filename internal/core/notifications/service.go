package notifications

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
)

type notificationService struct {
	repo     Repository
	settings SettingsReader
	logger   *slog.Logger
}

// NewService creates a new notification service
func NewService(repo Repository, settings SettingsReader, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		repo:     repo,
		settings: settings,
		logger:   logger,
	}
}

// typesForFilter translates a filter into the type list handed to the repository
func typesForFilter(filter string) ([]Type, error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", FilterAll:
		return nil, nil
	case FilterLike:
		return []Type{TypeLike}, nil
	case FilterComment:
		return []Type{TypeComment}, nil
	case FilterReply:
		return []Type{TypeReply}, nil
	default:
		return nil, ErrInvalidFilter
	}
}

func (s *notificationService) List(ctx context.Context, userID string, req ListRequest) ([]*View, error) {
	types, err := typesForFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	offset := (page-1)*PageSize - req.DeletedDocCount
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.List(ctx, userID, types, PageSize, offset)
	if err != nil {
		return nil, apperr.Upstream("list notifications", err)
	}

	unseen := make([]string, 0, len(items))
	for _, n := range items {
		if !n.Seen {
			unseen = append(unseen, n.ID)
		}
	}
	if len(unseen) > 0 {
		if err := s.repo.MarkSeen(ctx, unseen); err != nil {
			// The page is still returned; it will simply be reported as new again.
			s.logger.Error("failed to mark notifications seen", "error", err, "user_id", userID, "count", len(unseen))
		}
	}

	return items, nil
}

func (s *notificationService) Count(ctx context.Context, userID, filter string) (int, error) {
	types, err := typesForFilter(filter)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.Count(ctx, userID, types)
	if err != nil {
		return 0, apperr.Upstream("count notifications", err)
	}
	return count, nil
}

func (s *notificationService) enabledTypes(ctx context.Context, userID string) ([]Type, error) {
	settings, err := s.settings.GetNotificationSettings(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("get notification settings", err)
	}
	return EnabledTypes(*settings), nil
}

func (s *notificationService) HasNew(ctx context.Context, userID string) (bool, error) {
	types, err := s.enabledTypes(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(types) == 0 {
		return false, nil
	}

	found, err := s.repo.HasUnseen(ctx, userID, types)
	if err != nil {
		return false, apperr.Upstream("check unseen notifications", err)
	}
	return found, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	types, err := s.enabledTypes(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(types) == 0 {
		return 0, nil
	}

	count, err := s.repo.CountUnseen(ctx, userID, types)
	if err != nil {
		return 0, apperr.Upstream("count unseen notifications", err)
	}
	return count, nil
}
