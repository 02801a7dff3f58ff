package services

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// NotificationService writes in-app notification rows. Delivery transports
// (push, SMS, email) are outside this service; downstream workers consume
// the event stream instead.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify persists a notification row inside the given transaction so it
// commits or rolls back with the operation that triggered it.
func (s *NotificationService) Notify(tx *gorm.DB, userID uuid.UUID, title, body string) {
	notification := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := tx.Create(&notification).Error; err != nil {
		log.Printf("[Notifications] failed to write notification for %s: %v", userID, err)
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to count notifications", err)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to list notifications", err)
	}

	return notifications, total, nil
}

// MarkRead stamps a notification as read for its owner.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return apperr.Wrap("failed to mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
