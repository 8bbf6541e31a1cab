package service

import (
	"context"

	"devshare/internal/model"
	"devshare/internal/repository"
)

const NotificationListDefaultLimit = 20

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, userID int64, cursor *string, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = NotificationListDefaultLimit
	}
	if limit > ContentListMaxLimit {
		limit = ContentListMaxLimit
	}

	notifications, nextCursor, err := s.notificationRepo.List(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}
	return &model.NotificationListResponse{
		Notifications: notifications,
		NextCursor:    nextCursor,
		HasMore:       nextCursor != nil,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return s.notificationRepo.MarkAsRead(ctx, userID, notificationIDs)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
