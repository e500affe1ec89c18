package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/lifecycle"
	"placement-portal/backend/internal/metrics"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	pkgerrors "placement-portal/backend/pkg/errors"
)

const (
	defaultRecentNotifications = 5
	maxRecentNotifications     = 100
)

// Publisher 新通知的实时推送通道（如 Redis Pub/Sub）
type Publisher interface {
	PublishNotification(ctx context.Context, userID int64, payload interface{}) error
}

// NotificationService 通知业务接口
type NotificationService interface {
	// Notify 落库并推送一条流转通知
	Notify(ctx context.Context, notice *lifecycle.Notice) (*model.Notification, error)
	Feed(ctx context.Context, userID int64, limit int) (*dto.NotificationFeedResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	// MarkRead 幂等；通知不存在或不属于该用户时静默忽略
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	repo          *repository.Repository
	publisher     Publisher
	defaultRecent int
	logger        *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例；publisher 可为 nil
func NewNotificationService(repo *repository.Repository, publisher Publisher, defaultRecent int, logger *zap.Logger) NotificationService {
	if defaultRecent <= 0 {
		defaultRecent = defaultRecentNotifications
	}
	return &notificationService{
		repo:          repo,
		publisher:     publisher,
		defaultRecent: defaultRecent,
		logger:        logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, notice *lifecycle.Notice) (*model.Notification, error) {
	n := &model.Notification{
		UserID:  notice.UserID,
		Message: notice.Message,
		Type:    notice.Type,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.ObserveNotification(string(n.Type))

	// 推送失败不影响已落库的通知，客户端轮询仍可取到
	if s.publisher != nil {
		if err := s.publisher.PublishNotification(ctx, n.UserID, toNotificationResponse(n)); err != nil {
			s.logger.Warn("推送通知失败", zap.Int64("notification_id", n.ID), zap.Error(err))
		}
	}
	return n, nil
}

func (s *notificationService) Feed(ctx context.Context, userID int64, limit int) (*dto.NotificationFeedResponse, error) {
	switch {
	case limit <= 0:
		limit = s.defaultRecent
	case limit > maxRecentNotifications:
		limit = maxRecentNotifications
	}

	list, err := s.repo.Notification.Recent(ctx, userID, limit)
	if err != nil {
		s.logger.Error("查询通知失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	unread, err := s.repo.Notification.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Error("查询未读数失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.NotificationFeedResponse{
		Unread: unread,
		List:   make([]dto.NotificationResponse, 0, len(list)),
	}
	for i := range list {
		resp.List = append(resp.List, toNotificationResponse(&list[i]))
	}
	return resp, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Notification.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id int64) error {
	n, err := s.repo.Notification.GetByID(ctx, id)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n.UserID != userID || n.Read {
		return nil
	}
	return s.repo.Notification.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}
