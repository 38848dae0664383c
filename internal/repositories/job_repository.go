package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
)

type JobRepository interface {
	// Job operations
	CreateJob(db *gorm.DB, job *models.Job) error
	FindJobByID(db *gorm.DB, id string) (*models.Job, error)
	FindJobByProject(db *gorm.DB, projectID string) (*models.Job, error)
	SaveJob(db *gorm.DB, job *models.Job) error
	FindJobsByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Job, int64, error)
	FindJobsByProfessional(db *gorm.DB, professionalID string) ([]models.Job, error)
	HasCompletedJobBetween(db *gorm.DB, clientID, professionalID string) (bool, error)

	// Audit trail (append-only)
	CreateStatusUpdate(db *gorm.DB, update *models.JobStatusUpdate) error
	FindStatusUpdates(db *gorm.DB, jobID string) ([]models.JobStatusUpdate, error)

	// Milestones
	CreateMilestone(db *gorm.DB, milestone *models.JobMilestone) error
	FindMilestoneByID(db *gorm.DB, id string) (*models.JobMilestone, error)
	FindMilestonesByJob(db *gorm.DB, jobID string) ([]models.JobMilestone, error)
	SaveMilestone(db *gorm.DB, milestone *models.JobMilestone) error
	CountMilestones(db *gorm.DB, jobID string) (total int64, completed int64, err error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

// Job operations

func (r *JobRepositoryImpl) CreateJob(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindJobByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindJobByProject(db *gorm.DB, projectID string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) SaveJob(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) FindJobsByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Job, int64, error) {
	var jobs []models.Job

	query := db.Model(&models.Job{}).
		Where("client_id = ? OR professional_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) FindJobsByProfessional(db *gorm.DB, professionalID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("professional_id = ?", professionalID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) HasCompletedJobBetween(db *gorm.DB, clientID, professionalID string) (bool, error) {
	var count int64
	err := db.Model(&models.Job{}).
		Where("client_id = ? AND professional_id = ? AND status = ?",
			clientID, professionalID, models.JobStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// Audit trail

func (r *JobRepositoryImpl) CreateStatusUpdate(db *gorm.DB, update *models.JobStatusUpdate) error {
	return db.Create(update).Error
}

func (r *JobRepositoryImpl) FindStatusUpdates(db *gorm.DB, jobID string) ([]models.JobStatusUpdate, error) {
	var updates []models.JobStatusUpdate
	err := db.Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&updates).Error
	return updates, err
}

// Milestones

func (r *JobRepositoryImpl) CreateMilestone(db *gorm.DB, milestone *models.JobMilestone) error {
	return db.Create(milestone).Error
}

func (r *JobRepositoryImpl) FindMilestoneByID(db *gorm.DB, id string) (*models.JobMilestone, error) {
	var milestone models.JobMilestone
	if err := db.First(&milestone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *JobRepositoryImpl) FindMilestonesByJob(db *gorm.DB, jobID string) ([]models.JobMilestone, error) {
	var milestones []models.JobMilestone
	err := db.Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *JobRepositoryImpl) SaveMilestone(db *gorm.DB, milestone *models.JobMilestone) error {
	return db.Save(milestone).Error
}

func (r *JobRepositoryImpl) CountMilestones(db *gorm.DB, jobID string) (int64, int64, error) {
	var total int64
	if err := db.Model(&models.JobMilestone{}).Where("job_id = ?", jobID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var completed int64
	if err := db.Model(&models.JobMilestone{}).Where("job_id = ? AND completed = ?", jobID, true).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}
