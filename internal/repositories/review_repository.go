package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort keys accepted by FindApprovedByProfessional.
const (
	ReviewSortNewest     = "newest"
	ReviewSortOldest     = "oldest"
	ReviewSortRatingHigh = "rating_high"
	ReviewSortRatingLow  = "rating_low"
	ReviewSortHelpful    = "helpful"
)

type ReviewRepository interface {
	// Review operations
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	FindDuplicate(db *gorm.DB, reviewerID, professionalID string, serviceID, jobID *string) (*models.Review, error)
	SaveReview(db *gorm.DB, review *models.Review) error
	DeleteReview(db *gorm.DB, id string) error

	// Listing
	FindApprovedByProfessional(db *gorm.DB, professionalID, sort string, page, pageSize int) ([]models.Review, int64, error)
	FindApprovedReviews(db *gorm.DB, professionalID string) ([]models.Review, error)
	FindModerationQueue(db *gorm.DB, page, pageSize int) ([]models.Review, int64, error)

	// Aggregates
	AggregateApprovedRating(db *gorm.DB, professionalID string) (avg float64, count int64, err error)

	// Flags
	CreateFlag(db *gorm.DB, flag *models.ReviewFlag) error
	HasFlag(db *gorm.DB, reviewID, flaggerID string) (bool, error)
	CountFlags(db *gorm.DB, reviewID string) (int64, error)

	// Helpful votes
	UpsertHelpfulVote(db *gorm.DB, vote *models.ReviewHelpfulVote) error
	CountHelpfulVotes(db *gorm.DB, reviewID string) (int64, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

// Review operations

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindDuplicate(db *gorm.DB, reviewerID, professionalID string, serviceID, jobID *string) (*models.Review, error) {
	query := db.Where("reviewer_id = ? AND professional_id = ?", reviewerID, professionalID)
	if serviceID != nil {
		query = query.Where("service_id = ?", *serviceID)
	}
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) SaveReview(db *gorm.DB, review *models.Review) error {
	return db.Save(review).Error
}

func (r *ReviewRepositoryImpl) DeleteReview(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Listing

func orderForSort(sort string) string {
	switch sort {
	case ReviewSortOldest:
		return "created_at ASC"
	case ReviewSortRatingHigh:
		return "rating DESC, created_at DESC"
	case ReviewSortRatingLow:
		return "rating ASC, created_at DESC"
	case ReviewSortHelpful:
		return "helpful_count DESC, created_at DESC"
	default: // newest
		return "created_at DESC"
	}
}

func (r *ReviewRepositoryImpl) FindApprovedByProfessional(db *gorm.DB, professionalID, sort string, page, pageSize int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).
		Where("professional_id = ? AND moderation_status = ?", professionalID, models.ModerationStatusApproved)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	offset := (page - 1) * pageSize
	err := query.Order(orderForSort(sort)).
		Limit(pageSize).Offset(offset).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) FindApprovedReviews(db *gorm.DB, professionalID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("professional_id = ? AND moderation_status = ?",
		professionalID, models.ModerationStatusApproved).
		Find(&reviews).Error
	return reviews, err
}

// FindModerationQueue returns reviews awaiting a human decision. Both
// fresh pending reviews and ones escalated by the flag threshold are
// part of the queue; flagged ones surface first.
func (r *ReviewRepositoryImpl) FindModerationQueue(db *gorm.DB, page, pageSize int) ([]models.Review, int64, error) {
	statuses := []models.ModerationStatus{
		models.ModerationStatusPending,
		models.ModerationStatusFlagged,
	}
	query := db.Model(&models.Review{}).Where("moderation_status IN ?", statuses)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	offset := (page - 1) * pageSize
	err := query.Order("flagged_count DESC, created_at ASC").
		Limit(pageSize).Offset(offset).
		Find(&reviews).Error

	return reviews, total, err
}

// Aggregates

func (r *ReviewRepositoryImpl) AggregateApprovedRating(db *gorm.DB, professionalID string) (float64, int64, error) {
	var avg float64
	err := db.Model(&models.Review{}).
		Where("professional_id = ? AND moderation_status = ?", professionalID, models.ModerationStatusApproved).
		Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error
	if err != nil {
		return 0, 0, err
	}

	var count int64
	err = db.Model(&models.Review{}).
		Where("professional_id = ? AND moderation_status = ?", professionalID, models.ModerationStatusApproved).
		Count(&count).Error
	return avg, count, err
}

// Flags

func (r *ReviewRepositoryImpl) CreateFlag(db *gorm.DB, flag *models.ReviewFlag) error {
	return db.Create(flag).Error
}

func (r *ReviewRepositoryImpl) HasFlag(db *gorm.DB, reviewID, flaggerID string) (bool, error) {
	var count int64
	err := db.Model(&models.ReviewFlag{}).
		Where("review_id = ? AND flagger_id = ?", reviewID, flaggerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepositoryImpl) CountFlags(db *gorm.DB, reviewID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewFlag{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	return count, err
}

// Helpful votes

func (r *ReviewRepositoryImpl) UpsertHelpfulVote(db *gorm.DB, vote *models.ReviewHelpfulVote) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_helpful", "updated_at"}),
	}).Create(vote).Error
}

func (r *ReviewRepositoryImpl) CountHelpfulVotes(db *gorm.DB, reviewID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewHelpfulVote{}).
		Where("review_id = ? AND is_helpful = ?", reviewID, true).
		Count(&count).Error
	return count, err
}
