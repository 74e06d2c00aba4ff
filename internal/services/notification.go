package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
)

// NotificationService persists and serves in-app notifications. Delivery is
// the queue processor: both the sync queue and the async worker call
// Deliver.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Deliver stores a notification row for the target user.
func (s *NotificationService) Deliver(ctx context.Context, task *NotifyTask) error {
	notification := models.Notification{
		UserID:    task.UserID,
		Kind:      task.Kind,
		Title:     task.Title,
		Body:      task.Body,
		ProjectID: task.ProjectID,
		RequestID: task.RequestID,
	}
	return s.db.WithContext(ctx).Create(&notification).Error
}

type NotificationListResponse struct {
	Unread int64                 `json:"unread"`
	Items  []models.Notification `json:"items"`
}

// List returns the user's notifications newest-first with an unread count.
func (s *NotificationService) List(userID uint) (*NotificationListResponse, error) {
	var items []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&items).Error; err != nil {
		return nil, err
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{Unread: unread, Items: items}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Notification not found")
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
