package services

import (
	"math"
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// SystemActor marks moderation decisions made by the pipeline itself
// rather than a human moderator.
const SystemActor = "system"

// Reviews with a verified purchase and a comment longer than this are
// auto-approved on creation.
const autoApproveCommentLen = 20

// flagThreshold forces a review into the flagged state regardless of
// its current moderation status.
const flagThreshold = 5

type ReviewService interface {
	CreateReview(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	UpdateReview(db *gorm.DB, reviewID, actorID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(db *gorm.DB, reviewID, actorID string) error
	ListReviewsForProfessional(db *gorm.DB, professionalID, sort string, page, pageSize int) (*dto.ReviewListResponse, error)

	FlagReview(db *gorm.DB, reviewID, flaggerID string, req *dto.FlagReviewRequest) error
	VoteHelpful(db *gorm.DB, reviewID, userID string, req *dto.VoteHelpfulRequest) (*dto.ReviewResponse, error)

	ModerateReview(db *gorm.DB, reviewID, moderatorID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error)
	GetReviewsForModeration(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	jobRepo     repositories.JobRepository
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
	trigger     TrustScoreTrigger
	notifier    Notifier
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	projectRepo repositories.ProjectRepository,
	profileRepo repositories.ProfileRepository,
	trigger TrustScoreTrigger,
	notifier Notifier,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		jobRepo:     jobRepo,
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		trigger:     trigger,
		notifier:    notifier,
	}
}

// notify is best-effort: a failed notification never fails the review
// operation that caused it.
func (s *reviewService) notify(db *gorm.DB, userID, notifType, title, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(db, userID, notifType, title, body); err != nil {
		logger.WithError(err).Warn("review notification failed", "user_id", userID, "type", notifType)
	}
}

// reviewTrustScore is the per-review quality signal. A verified
// purchase earns a 1.2x multiplier, capped at 100.
func reviewTrustScore(rating int, verifiedPurchase bool) float64 {
	score := float64(rating) / 5.0 * 100.0
	if verifiedPurchase {
		score *= 1.2
	}
	return math.Min(score, 100.0)
}

func (s *reviewService) CreateReview(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	// Exactly one anchor: a review targets either a service or a job.
	if (req.ServiceID == nil) == (req.JobID == nil) {
		return nil, apperrors.ErrReviewAnchorRequired
	}

	if _, err := s.reviewRepo.FindDuplicate(db, reviewerID, req.ProfessionalID, req.ServiceID, req.JobID); err == nil {
		return nil, apperrors.ErrDuplicateReview
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to check for existing review", 500)
	}

	var verifiedPurchase bool
	if req.JobID != nil {
		job, err := s.jobRepo.FindJobByID(db, *req.JobID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrJobNotFound
			}
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to load job", 500)
		}
		if job.ClientID != reviewerID {
			return nil, apperrors.NewForbiddenError("review", "Only the job's client may review it")
		}
		if job.Status != models.JobStatusCompleted {
			return nil, apperrors.ErrJobNotCompleted
		}
		// A completed job between the pair is direct purchase evidence.
		verifiedPurchase = true
	} else {
		service, err := s.projectRepo.FindServiceByID(db, *req.ServiceID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrServiceNotFound
			}
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to load service", 500)
		}
		if service.ProfessionalID != req.ProfessionalID {
			return nil, apperrors.ErrServiceOwnershipMismatch
		}
		verifiedPurchase, err = s.jobRepo.HasCompletedJobBetween(db, reviewerID, req.ProfessionalID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to check purchase history", 500)
		}
	}

	review := &models.Review{
		ServiceID:           req.ServiceID,
		JobID:               req.JobID,
		ReviewerID:          reviewerID,
		ProfessionalID:      req.ProfessionalID,
		Rating:              req.Rating,
		CommunicationRating: req.CommunicationRating,
		QualityRating:       req.QualityRating,
		TimelinessRating:    req.TimelinessRating,
		ValueRating:         req.ValueRating,
		Comment:             req.Comment,
		VerifiedPurchase:    verifiedPurchase,
		ModerationStatus:    models.ModerationStatusPending,
		TrustScore:          reviewTrustScore(req.Rating, verifiedPurchase),
	}

	// Verified purchases with substantive comments skip the human
	// moderation queue.
	autoApproved := verifiedPurchase && len(req.Comment) > autoApproveCommentLen
	if autoApproved {
		now := time.Now()
		review.ModerationStatus = models.ModerationStatusApproved
		review.ModeratedAt = &now
		review.ModeratedBy = nil
	}

	if err := s.reviewRepo.CreateReview(db, review); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to create review", 500)
	}

	if err := s.recomputeProfessionalRating(db, req.ProfessionalID); err != nil {
		return nil, err
	}

	if autoApproved {
		if s.trigger != nil {
			s.trigger.TriggerTrustScoreUpdate(req.ProfessionalID, models.TrustEventReviewReceived)
		}
		s.notify(db, req.ProfessionalID, "review_received",
			"New review published", "You received a new verified review.")
	}

	logger.Info("review created",
		"review_id", review.ID,
		"professional_id", req.ProfessionalID,
		"verified_purchase", verifiedPurchase,
		"auto_approved", autoApproved)

	return reviewToResponse(review), nil
}

func (s *reviewService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return nil, err
	}
	return reviewToResponse(review), nil
}

func (s *reviewService) UpdateReview(db *gorm.DB, reviewID, actorID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != actorID {
		return nil, apperrors.ErrNotReviewAuthor
	}

	if req.Rating != nil && *req.Rating != review.Rating {
		review.Rating = *req.Rating
		review.TrustScore = reviewTrustScore(review.Rating, review.VerifiedPurchase)
	}
	if req.CommunicationRating != nil {
		review.CommunicationRating = req.CommunicationRating
	}
	if req.QualityRating != nil {
		review.QualityRating = req.QualityRating
	}
	if req.TimelinessRating != nil {
		review.TimelinessRating = req.TimelinessRating
	}
	if req.ValueRating != nil {
		review.ValueRating = req.ValueRating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	// Any edit sends the review back through moderation.
	review.ModerationStatus = models.ModerationStatusPending
	review.ModeratedBy = nil
	review.ModeratedAt = nil
	review.ModerationNotes = ""

	if err := s.reviewRepo.SaveReview(db, review); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to update review", 500)
	}

	if err := s.recomputeProfessionalRating(db, review.ProfessionalID); err != nil {
		return nil, err
	}
	if s.trigger != nil {
		s.trigger.TriggerTrustScoreUpdate(review.ProfessionalID, models.TrustEventReviewReceived)
	}

	return reviewToResponse(review), nil
}

func (s *reviewService) DeleteReview(db *gorm.DB, reviewID, actorID string) error {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != actorID {
		return apperrors.ErrNotReviewAuthor
	}

	if err := s.reviewRepo.DeleteReview(db, reviewID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to delete review", 500)
	}

	if err := s.recomputeProfessionalRating(db, review.ProfessionalID); err != nil {
		return err
	}
	if s.trigger != nil {
		s.trigger.TriggerTrustScoreUpdate(review.ProfessionalID, models.TrustEventReviewReceived)
	}
	return nil
}

func (s *reviewService) ListReviewsForProfessional(db *gorm.DB, professionalID, sort string, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindApprovedByProfessional(db, professionalID, sort, page, pageSize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to list reviews", 500)
	}
	return reviewListResponse(reviews, total, page, pageSize), nil
}

func (s *reviewService) FlagReview(db *gorm.DB, reviewID, flaggerID string, req *dto.FlagReviewRequest) error {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID == flaggerID {
		return apperrors.ErrSelfFlagNotAllowed
	}

	hasFlag, err := s.reviewRepo.HasFlag(db, reviewID, flaggerID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to check existing flags", 500)
	}
	if hasFlag {
		return apperrors.ErrDuplicateFlag
	}

	flag := &models.ReviewFlag{
		ReviewID:    reviewID,
		FlaggerID:   flaggerID,
		Reason:      req.Reason,
		Description: req.Description,
	}
	if err := s.reviewRepo.CreateFlag(db, flag); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to flag review", 500)
	}

	count, err := s.reviewRepo.CountFlags(db, reviewID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to count flags", 500)
	}

	review.FlaggedCount = int(count)
	if count >= flagThreshold {
		review.ModerationStatus = models.ModerationStatusFlagged
		logger.Warn("review forced into flagged state",
			"review_id", reviewID,
			"flag_count", count)
	}
	if err := s.reviewRepo.SaveReview(db, review); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to update flag count", 500)
	}
	return nil
}

func (s *reviewService) VoteHelpful(db *gorm.DB, reviewID, userID string, req *dto.VoteHelpfulRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return nil, err
	}

	vote := &models.ReviewHelpfulVote{
		ReviewID:  reviewID,
		UserID:    userID,
		IsHelpful: *req.IsHelpful,
	}
	if err := s.reviewRepo.UpsertHelpfulVote(db, vote); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to record vote", 500)
	}

	// The stored count is always a live recount, never an increment, so
	// vote flips stay consistent.
	count, err := s.reviewRepo.CountHelpfulVotes(db, reviewID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to count votes", 500)
	}
	review.HelpfulCount = int(count)
	if err := s.reviewRepo.SaveReview(db, review); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to update helpful count", 500)
	}

	return reviewToResponse(review), nil
}

func (s *reviewService) ModerateReview(db *gorm.DB, reviewID, moderatorID string, req *dto.ModerateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(db, reviewID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review.ModerationStatus = req.Status
	review.ModeratedAt = &now
	review.ModerationNotes = req.Notes
	if moderatorID == SystemActor {
		review.ModeratedBy = nil
	} else {
		review.ModeratedBy = &moderatorID
	}

	if err := s.reviewRepo.SaveReview(db, review); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to moderate review", 500)
	}

	// Approval and rejection both change the approved set the public
	// aggregate is computed over. The review_received event fires on
	// approval only.
	switch req.Status {
	case models.ModerationStatusApproved:
		if err := s.recomputeProfessionalRating(db, review.ProfessionalID); err != nil {
			return nil, err
		}
		if s.trigger != nil {
			s.trigger.TriggerTrustScoreUpdate(review.ProfessionalID, models.TrustEventReviewReceived)
		}
		s.notify(db, review.ProfessionalID, "review_received",
			"New review published", "A review of your work has been approved.")
	case models.ModerationStatusRejected:
		if err := s.recomputeProfessionalRating(db, review.ProfessionalID); err != nil {
			return nil, err
		}
		s.notify(db, review.ReviewerID, "review_rejected",
			"Review rejected", "Your review was rejected by moderation.")
	}

	logger.Info("review moderated",
		"review_id", reviewID,
		"status", req.Status,
		"moderator_id", moderatorID)

	return reviewToResponse(review), nil
}

// GetReviewsForModeration lists the queue of reviews needing a human
// decision: pending ones and ones escalated by the flag threshold.
func (s *reviewService) GetReviewsForModeration(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindModerationQueue(db, page, pageSize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to load moderation queue", 500)
	}
	return reviewListResponse(reviews, total, page, pageSize), nil
}

// recomputeProfessionalRating refreshes the denormalized aggregate on
// the professional's profile from the approved review set.
func (s *reviewService) recomputeProfessionalRating(db *gorm.DB, professionalID string) error {
	avg, count, err := s.reviewRepo.AggregateApprovedRating(db, professionalID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to aggregate rating", 500)
	}
	if err := s.profileRepo.UpdateAggregateRating(db, professionalID, avg, count); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to update profile rating", 500)
	}
	return nil
}

func (s *reviewService) findReview(db *gorm.DB, reviewID string) (*models.Review, error) {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "review", "Failed to load review", 500)
	}
	return review, nil
}

func reviewToResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:                  review.ID,
		ServiceID:           review.ServiceID,
		JobID:               review.JobID,
		ReviewerID:          review.ReviewerID,
		ProfessionalID:      review.ProfessionalID,
		Rating:              review.Rating,
		CommunicationRating: review.CommunicationRating,
		QualityRating:       review.QualityRating,
		TimelinessRating:    review.TimelinessRating,
		ValueRating:         review.ValueRating,
		Comment:             review.Comment,
		VerifiedPurchase:    review.VerifiedPurchase,
		ModerationStatus:    review.ModerationStatus,
		FlaggedCount:        review.FlaggedCount,
		HelpfulCount:        review.HelpfulCount,
		TrustScore:          review.TrustScore,
		CreatedAt:           review.CreatedAt,
		UpdatedAt:           review.UpdatedAt,
	}
}

func reviewListResponse(reviews []models.Review, total int64, page, pageSize int) *dto.ReviewListResponse {
	items := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, reviewToResponse(&reviews[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &dto.ReviewListResponse{
		Reviews:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
