package services

import (
	"sync"
	"testing"
	"time"

	"prowork_backend/database"
	"prowork_backend/internal/email"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and
	// serializes access.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// recordingTrigger captures trust-score triggers synchronously so
// tests can assert on them.
type recordingTrigger struct {
	mu     sync.Mutex
	users  []string
	events []models.TrustEvent
}

func (r *recordingTrigger) TriggerTrustScoreUpdate(userID string, event models.TrustEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	r.events = append(r.events, event)
}

func (r *recordingTrigger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *recordingTrigger) lastEvent() (string, models.TrustEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) == 0 {
		return "", ""
	}
	return r.users[len(r.users)-1], r.events[len(r.events)-1]
}

func newTestNotificationService() NotificationService {
	return NewNotificationService(
		repositories.NewNotificationRepository(),
		repositories.NewUserRepository(),
		email.NewNoopProvider(),
	)
}

func notificationsFor(t *testing.T, db *gorm.DB, userID, notifType string) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", userID, notifType).Find(&rows).Error)
	return rows
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Name:         "Test User",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	if role == models.UserRoleProfessional {
		require.NoError(t, db.Create(&models.ProfessionalProfile{UserID: user.ID}).Error)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, clientID string) *models.Project {
	t.Helper()
	project := &models.Project{
		ClientID: clientID,
		Title:    "Test Project",
		Budget:   1000,
		Currency: "USD",
		Status:   models.ProjectStatusOpen,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestProposal(t *testing.T, db *gorm.DB, projectID, professionalID string, status models.ProposalStatus) *models.Proposal {
	t.Helper()
	proposal := &models.Proposal{
		ProjectID:      projectID,
		ProfessionalID: professionalID,
		Price:          900,
		Currency:       "USD",
		Status:         status,
	}
	require.NoError(t, db.Create(proposal).Error)
	return proposal
}

func createTestJob(t *testing.T, db *gorm.DB, clientID, professionalID string, status models.JobStatus) *models.Job {
	t.Helper()
	project := createTestProject(t, db, clientID)
	proposal := createTestProposal(t, db, project.ID, professionalID, models.ProposalStatusAccepted)

	job := &models.Job{
		ProjectID:      project.ID,
		ProposalID:     proposal.ID,
		ClientID:       clientID,
		ProfessionalID: professionalID,
		Title:          "Test Job",
		AgreedPrice:    900,
		Currency:       "USD",
		Status:         status,
	}
	if status == models.JobStatusCompleted {
		now := time.Now()
		job.CompletedAt = &now
		job.ProgressPercentage = 100
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func createTestService(t *testing.T, db *gorm.DB, professionalID string) *models.Service {
	t.Helper()
	service := &models.Service{
		ProfessionalID: professionalID,
		Title:          "Test Service",
		Price:          100,
		Currency:       "USD",
		IsActive:       true,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}
