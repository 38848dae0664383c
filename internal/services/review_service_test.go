package services

import (
	"strings"
	"testing"

	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(trigger TrustScoreTrigger) ReviewService {
	return newReviewServiceWithNotifier(trigger, nil)
}

func newReviewServiceWithNotifier(trigger TrustScoreTrigger, notifier Notifier) ReviewService {
	return NewReviewService(
		repositories.NewReviewRepository(),
		repositories.NewJobRepository(),
		repositories.NewProjectRepository(),
		repositories.NewProfileRepository(),
		trigger,
		notifier,
	)
}

func TestCreateReview_RequiresExactlyOneAnchor(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		ProfessionalID: pro.ID,
		Rating:         5,
	})
	assert.Equal(t, apperrors.ErrReviewAnchorRequired, err)

	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)
	service := createTestService(t, db, pro.ID)

	_, err = s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		ServiceID:      &service.ID,
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
	})
	assert.Equal(t, apperrors.ErrReviewAnchorRequired, err)
}

func TestCreateReview_JobAnchorRules(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	stranger := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &missing,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	assert.Equal(t, apperrors.ErrJobNotFound, err)

	running := createTestJob(t, db, client.ID, pro.ID, models.JobStatusInProgress)
	_, err = s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &running.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	assert.Equal(t, apperrors.ErrJobNotCompleted, err)

	done := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)
	_, err = s.CreateReview(db, stranger.ID, &dto.CreateReviewRequest{
		JobID:          &done.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	resp, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &done.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)
	assert.True(t, resp.VerifiedPurchase)
}

func TestCreateReview_PerfectVerifiedRatingScoresHundred(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	resp, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
	})
	require.NoError(t, err)
	// min(5/5*100*1.2, 100)
	assert.InDelta(t, 100.0, resp.TrustScore, 1e-9)
}

func TestCreateReview_DuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	req := &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	}
	_, err := s.CreateReview(db, client.ID, req)
	require.NoError(t, err)

	_, err = s.CreateReview(db, client.ID, req)
	assert.Equal(t, apperrors.ErrDuplicateReview, err)
}

func TestCreateReview_ServiceAnchorOwnership(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	otherPro := createTestUser(t, db, models.UserRoleProfessional)
	service := createTestService(t, db, otherPro.ID)

	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		ServiceID:      &service.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	assert.Equal(t, apperrors.ErrServiceOwnershipMismatch, err)
}

func TestCreateReview_ServiceAnchorVerifiedPurchaseFromJobHistory(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	service := createTestService(t, db, pro.ID)

	// No completed job between the pair yet.
	resp, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		ServiceID:      &service.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)
	assert.False(t, resp.VerifiedPurchase)
	assert.Equal(t, models.ModerationStatusPending, resp.ModerationStatus)

	otherClient := createTestUser(t, db, models.UserRoleClient)
	createTestJob(t, db, otherClient.ID, pro.ID, models.JobStatusCompleted)
	otherService := createTestService(t, db, pro.ID)

	resp2, err := s.CreateReview(db, otherClient.ID, &dto.CreateReviewRequest{
		ServiceID:      &otherService.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
	})
	require.NoError(t, err)
	assert.True(t, resp2.VerifiedPurchase)
}

func TestCreateReview_AutoApprovalDependsOnCommentLength(t *testing.T) {
	db := setupTestDB(t)
	trigger := &recordingTrigger{}
	s := newReviewService(trigger)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	shortJob := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)
	short, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &shortJob.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("a", 15),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationStatusPending, short.ModerationStatus)
	assert.Equal(t, 0, trigger.count())

	otherClient := createTestUser(t, db, models.UserRoleClient)
	longJob := createTestJob(t, db, otherClient.ID, pro.ID, models.JobStatusCompleted)
	long, err := s.CreateReview(db, otherClient.ID, &dto.CreateReviewRequest{
		JobID:          &longJob.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("a", 25),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationStatusApproved, long.ModerationStatus)

	// Auto-approval carries no human moderator and fires the trust
	// recalculation.
	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", long.ID).Error)
	assert.Nil(t, stored.ModeratedBy)
	assert.NotNil(t, stored.ModeratedAt)

	require.Equal(t, 1, trigger.count())
	userID, event := trigger.lastEvent()
	assert.Equal(t, pro.ID, userID)
	assert.Equal(t, models.TrustEventReviewReceived, event)
}

func TestUpdateReview_OnlyAuthorAndResetsModeration(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(&recordingTrigger{})

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("good work here, really ", 2),
	})
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusApproved, created.ModerationStatus)

	stranger := createTestUser(t, db, models.UserRoleClient)
	_, err = s.UpdateReview(db, created.ID, stranger.ID, &dto.UpdateReviewRequest{})
	assert.Equal(t, apperrors.ErrNotReviewAuthor, err)

	newRating := 3
	updated, err := s.UpdateReview(db, created.ID, client.ID, &dto.UpdateReviewRequest{
		Rating: &newRating,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationStatusPending, updated.ModerationStatus)
	// min(3/5*100*1.2, 100) = 72
	assert.InDelta(t, 72.0, updated.TrustScore, 1e-9)
}

func TestDeleteReview_OnlyAuthor(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(&recordingTrigger{})

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)

	stranger := createTestUser(t, db, models.UserRoleClient)
	err = s.DeleteReview(db, created.ID, stranger.ID)
	assert.Equal(t, apperrors.ErrNotReviewAuthor, err)

	require.NoError(t, s.DeleteReview(db, created.ID, client.ID))

	err = db.First(&models.Review{}, "id = ?", created.ID).Error
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestFlagReview_RulesAndThreshold(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("x", 30),
	})
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusApproved, created.ModerationStatus)

	// The author cannot flag their own review.
	err = s.FlagReview(db, created.ID, client.ID, &dto.FlagReviewRequest{Reason: "spam"})
	assert.Equal(t, apperrors.ErrSelfFlagNotAllowed, err)

	flagger := createTestUser(t, db, models.UserRoleClient)
	require.NoError(t, s.FlagReview(db, created.ID, flagger.ID, &dto.FlagReviewRequest{Reason: "spam"}))

	err = s.FlagReview(db, created.ID, flagger.ID, &dto.FlagReviewRequest{Reason: "spam"})
	assert.Equal(t, apperrors.ErrDuplicateFlag, err)

	// Four more distinct flaggers push the count to the threshold.
	for i := 0; i < 4; i++ {
		other := createTestUser(t, db, models.UserRoleClient)
		require.NoError(t, s.FlagReview(db, created.ID, other.ID, &dto.FlagReviewRequest{Reason: "spam"}))
	}

	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, 5, stored.FlaggedCount)
	assert.Equal(t, models.ModerationStatusFlagged, stored.ModerationStatus)
}

func TestVoteHelpful_UpsertAndRecount(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)

	yes := true
	no := false

	voterA := createTestUser(t, db, models.UserRoleClient)
	voterB := createTestUser(t, db, models.UserRoleClient)

	resp, err := s.VoteHelpful(db, created.ID, voterA.ID, &dto.VoteHelpfulRequest{IsHelpful: &yes})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.HelpfulCount)

	resp, err = s.VoteHelpful(db, created.ID, voterB.ID, &dto.VoteHelpfulRequest{IsHelpful: &yes})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.HelpfulCount)

	// Flipping a vote shrinks the count instead of double-counting.
	resp, err = s.VoteHelpful(db, created.ID, voterA.ID, &dto.VoteHelpfulRequest{IsHelpful: &no})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.HelpfulCount)
}

func TestModerateReview_UpdatesAggregateAndTriggers(t *testing.T) {
	db := setupTestDB(t)
	trigger := &recordingTrigger{}
	s := newReviewService(trigger)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	moderator := createTestUser(t, db, models.UserRoleModerator)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusPending, created.ModerationStatus)

	before := trigger.count()
	moderated, err := s.ModerateReview(db, created.ID, moderator.ID, &dto.ModerateReviewRequest{
		Status: models.ModerationStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationStatusApproved, moderated.ModerationStatus)
	assert.Equal(t, before+1, trigger.count())

	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.NotNil(t, stored.ModeratedBy)
	assert.Equal(t, moderator.ID, *stored.ModeratedBy)

	var profile models.ProfessionalProfile
	require.NoError(t, db.First(&profile, "user_id = ?", pro.ID).Error)
	assert.InDelta(t, 4.0, profile.Rating, 1e-9)
	assert.EqualValues(t, 1, profile.ReviewCount)
}

func TestModerateReview_SystemActorStoresNoModerator(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         3,
	})
	require.NoError(t, err)

	_, err = s.ModerateReview(db, created.ID, SystemActor, &dto.ModerateReviewRequest{
		Status: models.ModerationStatusRejected,
	})
	require.NoError(t, err)

	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Nil(t, stored.ModeratedBy)
	assert.NotNil(t, stored.ModeratedAt)
}

func TestListReviewsForProfessional_ApprovedOnly(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	approvedJob := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)
	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &approvedJob.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("z", 30),
	})
	require.NoError(t, err)

	otherClient := createTestUser(t, db, models.UserRoleClient)
	pendingJob := createTestJob(t, db, otherClient.ID, pro.ID, models.JobStatusCompleted)
	_, err = s.CreateReview(db, otherClient.ID, &dto.CreateReviewRequest{
		JobID:          &pendingJob.ID,
		ProfessionalID: pro.ID,
		Rating:         1,
	})
	require.NoError(t, err)

	list, err := s.ListReviewsForProfessional(db, pro.ID, repositories.ReviewSortNewest, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, models.ModerationStatusApproved, list.Reviews[0].ModerationStatus)
}

func TestGetReviewsForModeration_PendingQueue(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         2,
	})
	require.NoError(t, err)

	queue, err := s.GetReviewsForModeration(db, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queue.Total)
	require.Len(t, queue.Reviews, 1)
	assert.Equal(t, models.ModerationStatusPending, queue.Reviews[0].ModerationStatus)
}

func TestGetReviewsForModeration_IncludesThresholdFlagged(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("x", 30),
	})
	require.NoError(t, err)
	require.Equal(t, models.ModerationStatusApproved, created.ModerationStatus)

	// Crossing the flag threshold pulls an already-approved review back
	// into the moderation queue.
	for i := 0; i < flagThreshold; i++ {
		other := createTestUser(t, db, models.UserRoleClient)
		require.NoError(t, s.FlagReview(db, created.ID, other.ID, &dto.FlagReviewRequest{Reason: "spam"}))
	}

	queue, err := s.GetReviewsForModeration(db, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queue.Total)
	require.Len(t, queue.Reviews, 1)
	assert.Equal(t, created.ID, queue.Reviews[0].ID)
	assert.Equal(t, models.ModerationStatusFlagged, queue.Reviews[0].ModerationStatus)
}

func TestModerateReview_RejectionEmitsNoTrustEvent(t *testing.T) {
	db := setupTestDB(t)
	trigger := &recordingTrigger{}
	s := newReviewServiceWithNotifier(trigger, newTestNotificationService())

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	moderator := createTestUser(t, db, models.UserRoleModerator)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)

	created, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &job.ID,
		ProfessionalID: pro.ID,
		Rating:         2,
	})
	require.NoError(t, err)

	before := trigger.count()
	_, err = s.ModerateReview(db, created.ID, moderator.ID, &dto.ModerateReviewRequest{
		Status: models.ModerationStatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, before, trigger.count())

	// The author learns about the rejection; the professional gets no
	// review_received notification.
	assert.Len(t, notificationsFor(t, db, client.ID, "review_rejected"), 1)
	assert.Empty(t, notificationsFor(t, db, pro.ID, "review_received"))
}

func TestReviewNotifications_ApprovalPaths(t *testing.T) {
	db := setupTestDB(t)
	s := newReviewServiceWithNotifier(nil, newTestNotificationService())

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	// Auto-approval notifies the professional right away.
	autoJob := createTestJob(t, db, client.ID, pro.ID, models.JobStatusCompleted)
	_, err := s.CreateReview(db, client.ID, &dto.CreateReviewRequest{
		JobID:          &autoJob.ID,
		ProfessionalID: pro.ID,
		Rating:         5,
		Comment:        strings.Repeat("a", 30),
	})
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, db, pro.ID, "review_received"), 1)

	// So does a manual approval.
	otherClient := createTestUser(t, db, models.UserRoleClient)
	manualJob := createTestJob(t, db, otherClient.ID, pro.ID, models.JobStatusCompleted)
	created, err := s.CreateReview(db, otherClient.ID, &dto.CreateReviewRequest{
		JobID:          &manualJob.ID,
		ProfessionalID: pro.ID,
		Rating:         4,
	})
	require.NoError(t, err)

	moderator := createTestUser(t, db, models.UserRoleModerator)
	_, err = s.ModerateReview(db, created.ID, moderator.ID, &dto.ModerateReviewRequest{
		Status: models.ModerationStatusApproved,
	})
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, db, pro.ID, "review_received"), 2)
}
