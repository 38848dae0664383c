package database

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ProfessionalProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Service{},
		&models.Job{},
		&models.JobMilestone{},
		&models.JobStatusUpdate{},
		&models.Review{},
		&models.ReviewFlag{},
		&models.ReviewHelpfulVote{},
		&models.TrustScore{},
		&models.VerificationRequest{},
		&models.Notification{},
	)
}
