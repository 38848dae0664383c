package services

import (
	"prowork_backend/internal/email"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Notifier is the slice of NotificationService the domain services
// depend on to announce lifecycle events.
type Notifier interface {
	Notify(db *gorm.DB, userID, notifType, title, body string) error
}

type NotificationService interface {
	Notifier
	ListNotifications(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkRead(db *gorm.DB, notificationID, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	provider         email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	provider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		provider:         provider,
	}
}

// Notify stores an in-app notification and mirrors it to email.
// Email delivery runs detached and is best-effort.
func (s *notificationService) Notify(db *gorm.DB, userID, notifType, title, body string) error {
	notification := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "notification", "Failed to create notification", 500)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		logger.WithError(err).Warn("notification email skipped, user lookup failed", "user_id", userID)
		return nil
	}

	go func(to, subject, msg string) {
		if err := s.provider.Send(to, subject, msg); err != nil {
			logger.WithError(err).Warn("notification email failed", "user_id", userID)
		}
	}(user.Email, title, body)

	return nil
}

func (s *notificationService) ListNotifications(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindByUser(db, userID, page, pageSize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "notification", "Failed to list notifications", 500)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		items = append(items, &dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Body:      n.Body,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) MarkRead(db *gorm.DB, notificationID, userID string) error {
	if err := s.notificationRepo.MarkRead(db, notificationID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "notification", "Failed to mark notification read", 500)
	}
	return nil
}
