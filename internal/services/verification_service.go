package services

import (
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type VerificationService interface {
	ReviewVerification(db *gorm.DB, requestID, reviewerID string, approve bool) error
}

type verificationService struct {
	verificationRepo repositories.VerificationRepository
	trigger          TrustScoreTrigger
}

func NewVerificationService(
	verificationRepo repositories.VerificationRepository,
	trigger TrustScoreTrigger,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		trigger:          trigger,
	}
}

// ReviewVerification settles a pending verification request. Approvals
// feed straight into the owner's verification score.
func (s *verificationService) ReviewVerification(db *gorm.DB, requestID, reviewerID string, approve bool) error {
	request, err := s.verificationRepo.FindByID(db, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrVerificationNotFound
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load verification request", 500)
	}

	now := time.Now()
	if approve {
		request.Status = models.VerificationStatusApproved
	} else {
		request.Status = models.VerificationStatusRejected
	}
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now

	if err := s.verificationRepo.Save(db, request); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to save verification request", 500)
	}

	if approve && s.trigger != nil {
		s.trigger.TriggerTrustScoreUpdate(request.UserID, models.TrustEventVerificationApproved)
	}

	logger.Info("verification reviewed",
		"request_id", requestID,
		"type", request.Type,
		"approved", approve,
		"reviewer_id", reviewerID)

	return nil
}
