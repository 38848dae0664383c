package services

import (
	"testing"
	"time"

	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobService(trigger TrustScoreTrigger) JobService {
	return newJobServiceWithNotifier(trigger, nil)
}

func newJobServiceWithNotifier(trigger TrustScoreTrigger, notifier Notifier) JobService {
	return NewJobService(
		repositories.NewJobRepository(),
		repositories.NewProjectRepository(),
		trigger,
		notifier,
	)
}

func TestCreateJob_Preconditions(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)

	_, err := s.CreateJob(db, &dto.CreateJobRequest{
		ProjectID:      "00000000-0000-0000-0000-000000000000",
		ProposalID:     "00000000-0000-0000-0000-000000000000",
		ProfessionalID: pro.ID,
		Title:          "Job",
		AgreedPrice:    100,
	})
	assert.Equal(t, apperrors.ErrProjectNotFound, err)

	project := createTestProject(t, db, client.ID)
	_, err = s.CreateJob(db, &dto.CreateJobRequest{
		ProjectID:      project.ID,
		ProposalID:     "00000000-0000-0000-0000-000000000000",
		ProfessionalID: pro.ID,
		Title:          "Job",
		AgreedPrice:    100,
	})
	assert.Equal(t, apperrors.ErrProposalNotFound, err)

	pending := createTestProposal(t, db, project.ID, pro.ID, models.ProposalStatusPending)
	_, err = s.CreateJob(db, &dto.CreateJobRequest{
		ProjectID:      project.ID,
		ProposalID:     pending.ID,
		ProfessionalID: pro.ID,
		Title:          "Job",
		AgreedPrice:    100,
	})
	assert.Equal(t, apperrors.ErrProposalNotAccepted, err)
}

func TestCreateJob_ProposalMustMatchProjectAndProfessional(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	otherPro := createTestUser(t, db, models.UserRoleProfessional)

	projectA := createTestProject(t, db, client.ID)
	projectB := createTestProject(t, db, client.ID)
	accepted := createTestProposal(t, db, projectB.ID, pro.ID, models.ProposalStatusAccepted)

	// An accepted proposal on another project cannot mint a job here.
	_, err := s.CreateJob(db, &dto.CreateJobRequest{
		ProjectID:      projectA.ID,
		ProposalID:     accepted.ID,
		ProfessionalID: pro.ID,
		Title:          "Job",
		AgreedPrice:    100,
	})
	assert.Equal(t, apperrors.ErrProposalProjectMismatch, err)

	// Nor can it be claimed by a professional who did not submit it.
	_, err = s.CreateJob(db, &dto.CreateJobRequest{
		ProjectID:      projectB.ID,
		ProposalID:     accepted.ID,
		ProfessionalID: otherPro.ID,
		Title:          "Job",
		AgreedPrice:    100,
	})
	assert.Equal(t, apperrors.ErrProposalProfessionalMismatch, err)

	var count int64
	require.NoError(t, db.Model(&models.Job{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateJob_AtomicCreateWithAudit(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	project := createTestProject(t, db, client.ID)
	proposal := createTestProposal(t, db, project.ID, pro.ID, models.ProposalStatusAccepted)

	req := &dto.CreateJobRequest{
		ProjectID:      project.ID,
		ProposalID:     proposal.ID,
		ProfessionalID: pro.ID,
		Title:          "Website build",
		AgreedPrice:    900,
	}

	resp, err := s.CreateJob(db, req)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusNotStarted, resp.Status)
	assert.Equal(t, 0, resp.ProgressPercentage)
	assert.Equal(t, client.ID, resp.ClientID)
	assert.Equal(t, "USD", resp.Currency)

	var storedProject models.Project
	require.NoError(t, db.First(&storedProject, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusInProgress, storedProject.Status)

	var audits []models.JobStatusUpdate
	require.NoError(t, db.Where("job_id = ?", resp.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, models.JobStatusNotStarted, audits[0].StatusFrom)
	assert.Equal(t, models.JobStatusNotStarted, audits[0].StatusTo)

	// One job per project.
	_, err = s.CreateJob(db, req)
	assert.Equal(t, apperrors.ErrJobAlreadyExists, err)
}

func TestUpdateStatus_ParticipantsOnly(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	stranger := createTestUser(t, db, models.UserRoleClient)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusNotStarted)

	_, err := s.UpdateStatus(db, job.ID, stranger.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusInProgress,
	})
	assert.Equal(t, apperrors.ErrNotJobParticipant, err)
}

func TestUpdateStatus_WriteOnceTimestamps(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusNotStarted)

	started, err := s.UpdateStatus(db, job.ID, pro.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusInProgress,
	})
	require.NoError(t, err)
	require.NotNil(t, started.StartedAt)
	firstStart := *started.StartedAt

	// Leave and re-enter the status; the original timestamp survives.
	_, err = s.UpdateStatus(db, job.ID, pro.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusMilestoneReview,
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	again, err := s.UpdateStatus(db, job.ID, pro.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusInProgress,
	})
	require.NoError(t, err)
	require.NotNil(t, again.StartedAt)
	assert.WithinDuration(t, firstStart, *again.StartedAt, time.Second)
}

func TestUpdateStatus_CompletionSideEffects(t *testing.T) {
	db := setupTestDB(t)
	trigger := &recordingTrigger{}
	s := newJobServiceWithNotifier(trigger, newTestNotificationService())

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusInProgress)

	resp, err := s.UpdateStatus(db, job.ID, client.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, 100, resp.ProgressPercentage)

	var project models.Project
	require.NoError(t, db.First(&project, "id = ?", job.ProjectID).Error)
	assert.Equal(t, models.ProjectStatusCompleted, project.Status)

	require.Equal(t, 1, trigger.count())
	userID, event := trigger.lastEvent()
	assert.Equal(t, pro.ID, userID)
	assert.Equal(t, models.TrustEventJobCompleted, event)

	// Both participants get an in-app notification.
	assert.Len(t, notificationsFor(t, db, client.ID, "job_completed"), 1)
	assert.Len(t, notificationsFor(t, db, pro.ID, "job_completed"), 1)
}

func TestUpdateStatus_AppendsAuditRows(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusNotStarted)

	_, err := s.UpdateStatus(db, job.ID, pro.ID, &dto.UpdateJobStatusRequest{
		Status:  models.JobStatusInProgress,
		Message: "kicking off",
	})
	require.NoError(t, err)
	_, err = s.UpdateStatus(db, job.ID, client.ID, &dto.UpdateJobStatusRequest{
		Status: models.JobStatusDisputed,
	})
	require.NoError(t, err)

	history, err := s.GetStatusHistory(db, job.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.JobStatusNotStarted, history[0].StatusFrom)
	assert.Equal(t, models.JobStatusInProgress, history[0].StatusTo)
	assert.Equal(t, "kicking off", history[0].Message)
	assert.Equal(t, models.JobStatusInProgress, history[1].StatusFrom)
	assert.Equal(t, models.JobStatusDisputed, history[1].StatusTo)
}

func TestMilestones_RoleChecksAndProgress(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	job := createTestJob(t, db, client.ID, pro.ID, models.JobStatusInProgress)

	stranger := createTestUser(t, db, models.UserRoleClient)
	_, err := s.CreateMilestone(db, job.ID, stranger.ID, &dto.CreateMilestoneRequest{Title: "Design"})
	assert.Equal(t, apperrors.ErrNotJobParticipant, err)

	first, err := s.CreateMilestone(db, job.ID, client.ID, &dto.CreateMilestoneRequest{Title: "Design"})
	require.NoError(t, err)
	second, err := s.CreateMilestone(db, job.ID, pro.ID, &dto.CreateMilestoneRequest{Title: "Build"})
	require.NoError(t, err)

	// Completion is the professional's action.
	_, err = s.CompleteMilestone(db, first.ID, client.ID)
	assert.Equal(t, apperrors.ErrNotJobProfessional, err)

	completed, err := s.CompleteMilestone(db, first.ID, pro.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)
	firstCompletedAt := *completed.CompletedAt

	var storedJob models.Job
	require.NoError(t, db.First(&storedJob, "id = ?", job.ID).Error)
	assert.Equal(t, 50, storedJob.ProgressPercentage)

	// Completing again keeps the original timestamp.
	time.Sleep(10 * time.Millisecond)
	repeat, err := s.CompleteMilestone(db, first.ID, pro.ID)
	require.NoError(t, err)
	require.NotNil(t, repeat.CompletedAt)
	assert.WithinDuration(t, firstCompletedAt, *repeat.CompletedAt, time.Second)

	// Approval is the client's action.
	_, err = s.ApproveMilestone(db, first.ID, pro.ID)
	assert.Equal(t, apperrors.ErrNotJobClient, err)

	approved, err := s.ApproveMilestone(db, first.ID, client.ID)
	require.NoError(t, err)
	assert.True(t, approved.ApprovedByClient)
	require.NotNil(t, approved.ApprovedAt)

	_, err = s.CompleteMilestone(db, second.ID, pro.ID)
	require.NoError(t, err)
	require.NoError(t, db.First(&storedJob, "id = ?", job.ID).Error)
	assert.Equal(t, 100, storedJob.ProgressPercentage)
}

func TestListJobsForUser_Pagination(t *testing.T) {
	db := setupTestDB(t)
	s := newJobService(nil)

	client := createTestUser(t, db, models.UserRoleClient)
	pro := createTestUser(t, db, models.UserRoleProfessional)
	for i := 0; i < 3; i++ {
		createTestJob(t, db, client.ID, pro.ID, models.JobStatusInProgress)
	}

	list, err := s.ListJobsForUser(db, client.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	assert.Len(t, list.Jobs, 2)
	assert.Equal(t, 2, list.TotalPages)

	// The professional sees the same jobs from their side.
	proList, err := s.ListJobsForUser(db, pro.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, proList.Total)
}
