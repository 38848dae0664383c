package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.ProfessionalProfile) error
	FindByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error)
	UpdateAggregateRating(db *gorm.DB, userID string, rating float64, reviewCount int64) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.ProfessionalProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateAggregateRating(db *gorm.DB, userID string, rating float64, reviewCount int64) error {
	return db.Model(&models.ProfessionalProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
}
