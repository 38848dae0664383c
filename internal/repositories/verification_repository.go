package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	FindByID(db *gorm.DB, id string) (*models.VerificationRequest, error)
	FindApprovedByUser(db *gorm.DB, userID string) ([]models.VerificationRequest, error)
	Save(db *gorm.DB, request *models.VerificationRequest) error
}

type VerificationRepositoryImpl struct{}

func NewVerificationRepository() VerificationRepository {
	return &VerificationRepositoryImpl{}
}

func (r *VerificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := db.First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *VerificationRepositoryImpl) FindApprovedByUser(db *gorm.DB, userID string) ([]models.VerificationRequest, error) {
	var requests []models.VerificationRequest
	err := db.Where("user_id = ? AND status = ?", userID, models.VerificationStatusApproved).
		Find(&requests).Error
	return requests, err
}

func (r *VerificationRepositoryImpl) Save(db *gorm.DB, request *models.VerificationRequest) error {
	return db.Save(request).Error
}
