package services

import (
	"encoding/json"
	"math"
	"time"

	"prowork_backend/internal/config"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TrustScoreTrigger schedules a background recalculation for a user.
// Implementations must never block the caller.
type TrustScoreTrigger interface {
	TriggerTrustScoreUpdate(userID string, event models.TrustEvent)
}

type TrustScoreService interface {
	CalculateTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error)
	GetTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error)
	UpdateAllTrustScores(db *gorm.DB) (*dto.BatchRecalcResult, error)
}

type trustScoreService struct {
	jobRepo          repositories.JobRepository
	reviewRepo       repositories.ReviewRepository
	profileRepo      repositories.ProfileRepository
	verificationRepo repositories.VerificationRepository
	trustRepo        repositories.TrustScoreRepository
	userRepo         repositories.UserRepository
	scoring          config.ScoringConfig
}

func NewTrustScoreService(
	jobRepo repositories.JobRepository,
	reviewRepo repositories.ReviewRepository,
	profileRepo repositories.ProfileRepository,
	verificationRepo repositories.VerificationRepository,
	trustRepo repositories.TrustScoreRepository,
	userRepo repositories.UserRepository,
	scoring config.ScoringConfig,
) TrustScoreService {
	return &trustScoreService{
		jobRepo:          jobRepo,
		reviewRepo:       reviewRepo,
		profileRepo:      profileRepo,
		verificationRepo: verificationRepo,
		trustRepo:        trustRepo,
		userRepo:         userRepo,
		scoring:          scoring,
	}
}

// scoreInputs is the snapshot the component formulas are computed from.
// It is also persisted as the score breakdown for debugging.
type scoreInputs struct {
	AvgRating           float64  `json:"avg_rating"`
	VerifiedRatio       float64  `json:"verified_ratio"`
	ReviewCount         int      `json:"review_count"`
	CompletedJobCount   int      `json:"completed_job_count"`
	CompletionRate      float64  `json:"completion_rate"`
	OnTimeRate          float64  `json:"on_time_rate"`
	AvgCommunication    float64  `json:"avg_communication"`
	HasCommunication    bool     `json:"has_communication"`
	AvgTimeliness       float64  `json:"avg_timeliness"`
	ResponseTimeHours   float64  `json:"response_time_hours"`
	ApprovedVerifyTypes []string `json:"approved_verification_types"`
}

type scoreComponents struct {
	Review        float64
	Completion    float64
	Communication float64
	Reliability   float64
	Verification  float64
	Overall       float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// computeComponents is a pure function of the snapshot; calling it twice
// with the same inputs always yields the same result.
func (s *trustScoreService) computeComponents(in scoreInputs) scoreComponents {
	var c scoreComponents

	countBonus := math.Min(float64(in.ReviewCount)/50.0*10.0, 10.0)
	c.Review = math.Min(in.AvgRating*15.0+in.VerifiedRatio*10.0+countBonus, 100.0)
	c.Review = clamp(c.Review, 0, 100)

	volumeBonus := math.Min(float64(in.CompletedJobCount)/20.0*10.0, 20.0)
	c.Completion = math.Min(in.CompletionRate*80.0+volumeBonus, 100.0)
	c.Completion = clamp(c.Completion, 0, 100)

	if in.HasCommunication {
		c.Communication = clamp(in.AvgCommunication*20.0, 0, 100)
	} else {
		c.Communication = 75.0
	}

	c.Reliability = clamp(50.0+in.OnTimeRate*30.0+(in.AvgTimeliness-3.0)*5.0, 0, 100)

	var verificationSum float64
	for _, t := range in.ApprovedVerifyTypes {
		verificationSum += s.scoring.VerificationWeights[t]
	}
	c.Verification = clamp(math.Min(verificationSum, 100.0), 0, 100)

	w := s.scoring.OverallWeights
	c.Overall = c.Review*w.Review +
		c.Completion*w.Completion +
		c.Reliability*w.Reliability +
		c.Communication*w.Communication +
		c.Verification*w.Verification
	c.Overall = clamp(c.Overall, 0, 100)

	return c
}

// badgeFor picks the highest tier whose threshold the score meets.
// Tiers are ordered highest threshold first.
func (s *trustScoreService) badgeFor(overall float64) (string, string) {
	for _, tier := range s.scoring.BadgeTiers {
		if overall >= tier.MinScore {
			return tier.Name, tier.Color
		}
	}
	return "New Professional", "#94A3B8"
}

// gatherInputs loads the user's jobs, approved reviews, profile and
// approved verifications and reduces them to the scoring snapshot.
func (s *trustScoreService) gatherInputs(db *gorm.DB, userID string) (scoreInputs, error) {
	var in scoreInputs

	jobs, err := s.jobRepo.FindJobsByProfessional(db, userID)
	if err != nil {
		return in, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load jobs", 500)
	}

	var completed, terminal, onTime, dated int
	for _, job := range jobs {
		switch job.Status {
		case models.JobStatusCompleted:
			completed++
			terminal++
			if job.DeliveryDate != nil && job.CompletedAt != nil {
				dated++
				if !job.CompletedAt.After(*job.DeliveryDate) {
					onTime++
				}
			}
		case models.JobStatusCancelled, models.JobStatusDisputed:
			terminal++
		}
	}
	in.CompletedJobCount = completed
	if terminal > 0 {
		in.CompletionRate = float64(completed) / float64(terminal)
	}
	// Without any dated completed jobs there is no delivery evidence
	// either way; a neutral 0.5 keeps reliability at its baseline.
	in.OnTimeRate = 0.5
	if dated > 0 {
		in.OnTimeRate = float64(onTime) / float64(dated)
	}

	reviews, err := s.reviewRepo.FindApprovedReviews(db, userID)
	if err != nil {
		return in, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load reviews", 500)
	}

	in.ReviewCount = len(reviews)
	var ratingSum, verifiedCount float64
	var commSum, commCount float64
	var timeSum, timeCount float64
	for _, review := range reviews {
		ratingSum += float64(review.Rating)
		if review.VerifiedPurchase {
			verifiedCount++
		}
		if review.CommunicationRating != nil {
			commSum += float64(*review.CommunicationRating)
			commCount++
		}
		if review.TimelinessRating != nil {
			timeSum += float64(*review.TimelinessRating)
			timeCount++
		}
	}
	if in.ReviewCount > 0 {
		in.AvgRating = ratingSum / float64(in.ReviewCount)
		in.VerifiedRatio = verifiedCount / float64(in.ReviewCount)
	}
	if commCount > 0 {
		in.HasCommunication = true
		in.AvgCommunication = commSum / commCount
	}
	in.AvgTimeliness = 3.0
	if timeCount > 0 {
		in.AvgTimeliness = timeSum / timeCount
	}

	in.ResponseTimeHours = 24.0
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err == nil {
		in.ResponseTimeHours = profile.AvgResponseTimeHours
	} else if err != gorm.ErrRecordNotFound {
		return in, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load profile", 500)
	}

	verifications, err := s.verificationRepo.FindApprovedByUser(db, userID)
	if err != nil {
		return in, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load verifications", 500)
	}
	seen := make(map[string]bool)
	for _, v := range verifications {
		t := string(v.Type)
		if !seen[t] {
			seen[t] = true
			in.ApprovedVerifyTypes = append(in.ApprovedVerifyTypes, t)
		}
	}

	return in, nil
}

func (s *trustScoreService) CalculateTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error) {
	in, err := s.gatherInputs(db, userID)
	if err != nil {
		return nil, err
	}

	components := s.computeComponents(in)
	badge, color := s.badgeFor(components.Overall)

	breakdown, err := json.Marshal(in)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	verified := make(map[string]bool, len(in.ApprovedVerifyTypes))
	for _, t := range in.ApprovedVerifyTypes {
		verified[t] = true
	}

	score := &models.TrustScore{
		UserID:             userID,
		OverallScore:       components.Overall,
		ReviewScore:        components.Review,
		CompletionScore:    components.Completion,
		CommunicationScore: components.Communication,
		ReliabilityScore:   components.Reliability,
		VerificationScore:  components.Verification,
		JobsCompleted:      in.CompletedJobCount,
		ReviewsReceived:    in.ReviewCount,
		AverageRating:      in.AvgRating,
		ResponseTimeHours:  in.ResponseTimeHours,
		CompletionRate:     in.CompletionRate,
		IdentityVerified:   verified[string(models.VerificationTypeIdentity)],
		SkillsVerified:     verified[string(models.VerificationTypeSkills)],
		BusinessVerified:   verified[string(models.VerificationTypeBusiness)],
		BackgroundChecked:  verified[string(models.VerificationTypeBackgroundCheck)],
		BadgeTier:          badge,
		BadgeColor:         color,
		ScoreBreakdown:     breakdown,
		LastCalculatedAt:   time.Now(),
	}

	if err := s.trustRepo.Upsert(db, score); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to save trust score", 500)
	}

	logger.Debug("trust score calculated",
		"user_id", userID,
		"overall", components.Overall,
		"badge", badge)

	return trustScoreToResponse(score), nil
}

func (s *trustScoreService) GetTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error) {
	score, err := s.trustRepo.FindByUserID(db, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTrustScoreNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to load trust score", 500)
	}
	return trustScoreToResponse(score), nil
}

// UpdateAllTrustScores recomputes every active professional. Per-user
// failures are logged and skipped so one bad record cannot halt the run.
func (s *trustScoreService) UpdateAllTrustScores(db *gorm.DB) (*dto.BatchRecalcResult, error) {
	ids, err := s.userRepo.FindIDsByRole(db, models.UserRoleProfessional)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "trust", "Failed to list professionals", 500)
	}

	result := &dto.BatchRecalcResult{}
	for _, id := range ids {
		if _, err := s.CalculateTrustScore(db, id); err != nil {
			logger.WithError(err).Error("batch trust score recalculation failed", "user_id", id)
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Processed++
	}

	logger.Info("batch trust score recalculation finished",
		"processed", result.Processed,
		"failed", result.Failed)

	return result, nil
}

func trustScoreToResponse(score *models.TrustScore) *dto.TrustScoreResponse {
	return &dto.TrustScoreResponse{
		UserID:             score.UserID,
		OverallScore:       score.OverallScore,
		ReviewScore:        score.ReviewScore,
		CompletionScore:    score.CompletionScore,
		CommunicationScore: score.CommunicationScore,
		ReliabilityScore:   score.ReliabilityScore,
		VerificationScore:  score.VerificationScore,
		JobsCompleted:      score.JobsCompleted,
		ReviewsReceived:    score.ReviewsReceived,
		AverageRating:      score.AverageRating,
		ResponseTimeHours:  score.ResponseTimeHours,
		CompletionRate:     score.CompletionRate,
		IdentityVerified:   score.IdentityVerified,
		SkillsVerified:     score.SkillsVerified,
		BusinessVerified:   score.BusinessVerified,
		BackgroundChecked:  score.BackgroundChecked,
		BadgeTier:          score.BadgeTier,
		BadgeColor:         score.BadgeColor,
		LastCalculatedAt:   score.LastCalculatedAt,
	}
}
