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

type JobService interface {
	CreateJob(db *gorm.DB, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error)
	UpdateStatus(db *gorm.DB, jobID, actorID string, req *dto.UpdateJobStatusRequest) (*dto.JobResponse, error)
	GetStatusHistory(db *gorm.DB, jobID string) ([]*dto.StatusUpdateResponse, error)
	ListJobsForUser(db *gorm.DB, userID string, page, pageSize int) (*dto.JobListResponse, error)

	CreateMilestone(db *gorm.DB, jobID, actorID string, req *dto.CreateMilestoneRequest) (*dto.MilestoneResponse, error)
	CompleteMilestone(db *gorm.DB, milestoneID, actorID string) (*dto.MilestoneResponse, error)
	ApproveMilestone(db *gorm.DB, milestoneID, actorID string) (*dto.MilestoneResponse, error)
	ListMilestones(db *gorm.DB, jobID string) ([]*dto.MilestoneResponse, error)
}

type jobService struct {
	jobRepo     repositories.JobRepository
	projectRepo repositories.ProjectRepository
	trigger     TrustScoreTrigger
	notifier    Notifier
}

func NewJobService(
	jobRepo repositories.JobRepository,
	projectRepo repositories.ProjectRepository,
	trigger TrustScoreTrigger,
	notifier Notifier,
) JobService {
	return &jobService{
		jobRepo:     jobRepo,
		projectRepo: projectRepo,
		trigger:     trigger,
		notifier:    notifier,
	}
}

// notify is best-effort: a failed notification never fails the job
// operation that caused it.
func (s *jobService) notify(db *gorm.DB, userID, notifType, title, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(db, userID, notifType, title, body); err != nil {
		logger.WithError(err).Warn("job notification failed", "user_id", userID, "type", notifType)
	}
}

// CreateJob turns an accepted proposal into a job. The job insert, the
// project status change and the initial audit row commit atomically.
func (s *jobService) CreateJob(db *gorm.DB, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, req.ProjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to load project", 500)
	}

	proposal, err := s.projectRepo.FindProposalByID(db, req.ProposalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProposalNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to load proposal", 500)
	}
	// The proposal must be the professional's accepted bid on this very
	// project, not just any accepted proposal.
	if proposal.ProjectID != req.ProjectID {
		return nil, apperrors.ErrProposalProjectMismatch
	}
	if proposal.ProfessionalID != req.ProfessionalID {
		return nil, apperrors.ErrProposalProfessionalMismatch
	}
	if proposal.Status != models.ProposalStatusAccepted {
		return nil, apperrors.ErrProposalNotAccepted
	}

	if _, err := s.jobRepo.FindJobByProject(db, req.ProjectID); err == nil {
		return nil, apperrors.ErrJobAlreadyExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to check for existing job", 500)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	job := &models.Job{
		ProjectID:      req.ProjectID,
		ProposalID:     req.ProposalID,
		ClientID:       project.ClientID,
		ProfessionalID: req.ProfessionalID,
		Title:          req.Title,
		Description:    req.Description,
		AgreedPrice:    req.AgreedPrice,
		Currency:       currency,
		Status:         models.JobStatusNotStarted,
		DeliveryDate:   req.DeliveryDate,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.jobRepo.CreateJob(tx, job); err != nil {
			return err
		}
		if err := s.projectRepo.UpdateProjectStatus(tx, req.ProjectID, models.ProjectStatusInProgress); err != nil {
			return err
		}
		return s.jobRepo.CreateStatusUpdate(tx, &models.JobStatusUpdate{
			JobID:      job.ID,
			StatusFrom: models.JobStatusNotStarted,
			StatusTo:   models.JobStatusNotStarted,
			ActorID:    project.ClientID,
			Message:    "Job created from accepted proposal",
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to create job", 500)
	}

	logger.Info("job created",
		"job_id", job.ID,
		"project_id", req.ProjectID,
		"professional_id", req.ProfessionalID)

	return jobToResponse(job), nil
}

func (s *jobService) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	return jobToResponse(job), nil
}

func (s *jobService) UpdateStatus(db *gorm.DB, jobID, actorID string, req *dto.UpdateJobStatusRequest) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	if actorID != job.ClientID && actorID != job.ProfessionalID {
		return nil, apperrors.ErrNotJobParticipant
	}
	if !models.ValidJobStatuses[req.Status] {
		return nil, apperrors.NewBadRequestError("job", "Unknown job status")
	}

	previous := job.Status
	job.Status = req.Status
	if req.Progress != nil {
		job.ProgressPercentage = *req.Progress
	}

	// Lifecycle timestamps are write-once: once set they survive any
	// later status change, including a revisit of the same status.
	now := time.Now()
	switch req.Status {
	case models.JobStatusInProgress:
		if job.StartedAt == nil {
			job.StartedAt = &now
		}
	case models.JobStatusCompleted:
		if job.CompletedAt == nil {
			job.CompletedAt = &now
		}
		job.ProgressPercentage = 100
	case models.JobStatusCancelled:
		if job.CancelledAt == nil {
			job.CancelledAt = &now
		}
	}

	if err := s.jobRepo.SaveJob(db, job); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to update job", 500)
	}

	audit := &models.JobStatusUpdate{
		JobID:      job.ID,
		StatusFrom: previous,
		StatusTo:   req.Status,
		ActorID:    actorID,
		Message:    req.Message,
	}
	if err := s.jobRepo.CreateStatusUpdate(db, audit); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to record status change", 500)
	}

	if req.Status == models.JobStatusCompleted {
		if err := s.projectRepo.UpdateProjectStatus(db, job.ProjectID, models.ProjectStatusCompleted); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to complete project", 500)
		}
		if s.trigger != nil {
			s.trigger.TriggerTrustScoreUpdate(job.ProfessionalID, models.TrustEventJobCompleted)
		}
		s.notify(db, job.ClientID, "job_completed",
			"Job completed", "The job \""+job.Title+"\" has been completed.")
		s.notify(db, job.ProfessionalID, "job_completed",
			"Job completed", "The job \""+job.Title+"\" has been completed.")
	}

	logger.Info("job status updated",
		"job_id", job.ID,
		"from", previous,
		"to", req.Status,
		"actor_id", actorID)

	return jobToResponse(job), nil
}

func (s *jobService) GetStatusHistory(db *gorm.DB, jobID string) ([]*dto.StatusUpdateResponse, error) {
	if _, err := s.findJob(db, jobID); err != nil {
		return nil, err
	}

	updates, err := s.jobRepo.FindStatusUpdates(db, jobID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to load status history", 500)
	}

	history := make([]*dto.StatusUpdateResponse, 0, len(updates))
	for i := range updates {
		u := &updates[i]
		history = append(history, &dto.StatusUpdateResponse{
			ID:         u.ID,
			JobID:      u.JobID,
			StatusFrom: u.StatusFrom,
			StatusTo:   u.StatusTo,
			ActorID:    u.ActorID,
			Message:    u.Message,
			CreatedAt:  u.CreatedAt,
		})
	}
	return history, nil
}

func (s *jobService) ListJobsForUser(db *gorm.DB, userID string, page, pageSize int) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobRepo.FindJobsByUser(db, userID, page, pageSize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to list jobs", 500)
	}

	items := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobToResponse(&jobs[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &dto.JobListResponse{
		Jobs:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *jobService) CreateMilestone(db *gorm.DB, jobID, actorID string, req *dto.CreateMilestoneRequest) (*dto.MilestoneResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	if actorID != job.ClientID && actorID != job.ProfessionalID {
		return nil, apperrors.ErrNotJobParticipant
	}

	milestone := &models.JobMilestone{
		JobID:       jobID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	}
	if err := s.jobRepo.CreateMilestone(db, milestone); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to create milestone", 500)
	}

	return milestoneToResponse(milestone), nil
}

func (s *jobService) CompleteMilestone(db *gorm.DB, milestoneID, actorID string) (*dto.MilestoneResponse, error) {
	milestone, job, err := s.findMilestoneWithJob(db, milestoneID)
	if err != nil {
		return nil, err
	}
	if actorID != job.ProfessionalID {
		return nil, apperrors.ErrNotJobProfessional
	}

	// Write-once: repeated completion keeps the original timestamp.
	if !milestone.Completed {
		now := time.Now()
		milestone.Completed = true
		milestone.CompletedAt = &now
		if err := s.jobRepo.SaveMilestone(db, milestone); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to complete milestone", 500)
		}
		if err := s.refreshProgress(db, job); err != nil {
			return nil, err
		}
	}

	return milestoneToResponse(milestone), nil
}

func (s *jobService) ApproveMilestone(db *gorm.DB, milestoneID, actorID string) (*dto.MilestoneResponse, error) {
	milestone, job, err := s.findMilestoneWithJob(db, milestoneID)
	if err != nil {
		return nil, err
	}
	if actorID != job.ClientID {
		return nil, apperrors.ErrNotJobClient
	}

	if !milestone.ApprovedByClient {
		now := time.Now()
		milestone.ApprovedByClient = true
		milestone.ApprovedAt = &now
		if err := s.jobRepo.SaveMilestone(db, milestone); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to approve milestone", 500)
		}
	}

	return milestoneToResponse(milestone), nil
}

func (s *jobService) ListMilestones(db *gorm.DB, jobID string) ([]*dto.MilestoneResponse, error) {
	if _, err := s.findJob(db, jobID); err != nil {
		return nil, err
	}

	milestones, err := s.jobRepo.FindMilestonesByJob(db, jobID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to list milestones", 500)
	}

	items := make([]*dto.MilestoneResponse, 0, len(milestones))
	for i := range milestones {
		items = append(items, milestoneToResponse(&milestones[i]))
	}
	return items, nil
}

// refreshProgress derives the job's progress percentage from the share
// of completed milestones.
func (s *jobService) refreshProgress(db *gorm.DB, job *models.Job) error {
	total, completed, err := s.jobRepo.CountMilestones(db, job.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to count milestones", 500)
	}
	if total == 0 {
		return nil
	}

	job.ProgressPercentage = int(math.Round(float64(completed) / float64(total) * 100.0))
	if err := s.jobRepo.SaveJob(db, job); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to update progress", 500)
	}
	return nil
}

func (s *jobService) findJob(db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to load job", 500)
	}
	return job, nil
}

func (s *jobService) findMilestoneWithJob(db *gorm.DB, milestoneID string) (*models.JobMilestone, *models.Job, error) {
	milestone, err := s.jobRepo.FindMilestoneByID(db, milestoneID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.ErrMilestoneNotFound
		}
		return nil, nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "job", "Failed to load milestone", 500)
	}
	job, err := s.findJob(db, milestone.JobID)
	if err != nil {
		return nil, nil, err
	}
	return milestone, job, nil
}

func jobToResponse(job *models.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:                 job.ID,
		ProjectID:          job.ProjectID,
		ProposalID:         job.ProposalID,
		ClientID:           job.ClientID,
		ProfessionalID:     job.ProfessionalID,
		Title:              job.Title,
		Description:        job.Description,
		AgreedPrice:        job.AgreedPrice,
		Currency:           job.Currency,
		Status:             job.Status,
		ProgressPercentage: job.ProgressPercentage,
		DeliveryDate:       job.DeliveryDate,
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		CancelledAt:        job.CancelledAt,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
	}
}

func milestoneToResponse(m *models.JobMilestone) *dto.MilestoneResponse {
	return &dto.MilestoneResponse{
		ID:               m.ID,
		JobID:            m.JobID,
		Title:            m.Title,
		Description:      m.Description,
		Amount:           m.Amount,
		DueDate:          m.DueDate,
		Completed:        m.Completed,
		CompletedAt:      m.CompletedAt,
		ApprovedByClient: m.ApprovedByClient,
		ApprovedAt:       m.ApprovedAt,
		CreatedAt:        m.CreatedAt,
	}
}
