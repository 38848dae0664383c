package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrustScoreRepository interface {
	// Upsert fully replaces the user's row; last write wins.
	Upsert(db *gorm.DB, score *models.TrustScore) error
	FindByUserID(db *gorm.DB, userID string) (*models.TrustScore, error)
}

type TrustScoreRepositoryImpl struct{}

func NewTrustScoreRepository() TrustScoreRepository {
	return &TrustScoreRepositoryImpl{}
}

func (r *TrustScoreRepositoryImpl) Upsert(db *gorm.DB, score *models.TrustScore) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(score).Error
}

func (r *TrustScoreRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.TrustScore, error) {
	var score models.TrustScore
	if err := db.First(&score, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &score, nil
}
