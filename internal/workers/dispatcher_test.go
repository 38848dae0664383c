package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"prowork_backend/database"
	"prowork_backend/internal/config"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services"
	"prowork_backend/internal/services/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTrustService() services.TrustScoreService {
	return services.NewTrustScoreService(
		repositories.NewJobRepository(),
		repositories.NewReviewRepository(),
		repositories.NewProfileRepository(),
		repositories.NewVerificationRepository(),
		repositories.NewTrustScoreRepository(),
		repositories.NewUserRepository(),
		config.DefaultScoringConfig(),
	)
}

func createProfessional(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Name:         "Test Professional",
		Role:         models.UserRoleProfessional,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.ProfessionalProfile{UserID: user.ID}).Error)
	return user
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_DeliversRecalculation(t *testing.T) {
	db := setupTestDB(t)
	pro := createProfessional(t, db)

	d := NewDispatcher(db, newTrustService(), 16, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	d.TriggerTrustScoreUpdate(pro.ID, models.TrustEventJobCompleted)

	waitFor(t, func() bool {
		var count int64
		require.NoError(t, db.Model(&models.TrustScore{}).
			Where("user_id = ?", pro.ID).Count(&count).Error)
		return count == 1
	})
}

func TestDispatcher_TriggerNeverBlocks(t *testing.T) {
	// No workers started, queue of one: the second trigger must be
	// dropped instead of blocking the caller.
	d := NewDispatcher(nil, newTrustService(), 1, 1)

	done := make(chan struct{})
	go func() {
		d.TriggerTrustScoreUpdate("user-a", models.TrustEventReviewReceived)
		d.TriggerTrustScoreUpdate("user-b", models.TrustEventReviewReceived)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("trigger blocked on a full queue")
	}
}

func TestDispatcher_TriggerAfterStopIsDropped(t *testing.T) {
	d := NewDispatcher(nil, newTrustService(), 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	d.Stop()

	assert.NotPanics(t, func() {
		d.TriggerTrustScoreUpdate("user-a", models.TrustEventJobCompleted)
	})
}

// panickyTrustService fails loudly on the first call and records every
// later one.
type panickyTrustService struct {
	mu       sync.Mutex
	calls    int
	received []string
}

func (p *panickyTrustService) CalculateTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls == 1 {
		panic("corrupt record")
	}
	p.received = append(p.received, userID)
	return &dto.TrustScoreResponse{UserID: userID}, nil
}

func (p *panickyTrustService) GetTrustScore(db *gorm.DB, userID string) (*dto.TrustScoreResponse, error) {
	return nil, gorm.ErrRecordNotFound
}

func (p *panickyTrustService) UpdateAllTrustScores(db *gorm.DB) (*dto.BatchRecalcResult, error) {
	return &dto.BatchRecalcResult{}, nil
}

func TestDispatcher_SurvivesPanickingTask(t *testing.T) {
	trust := &panickyTrustService{}
	d := NewDispatcher(nil, trust, 16, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	d.TriggerTrustScoreUpdate("user-a", models.TrustEventJobCompleted)
	d.TriggerTrustScoreUpdate("user-b", models.TrustEventJobCompleted)

	waitFor(t, func() bool {
		trust.mu.Lock()
		defer trust.mu.Unlock()
		return len(trust.received) == 1 && trust.received[0] == "user-b"
	})
}

func TestDispatcher_StopDrainsQueue(t *testing.T) {
	db := setupTestDB(t)
	proA := createProfessional(t, db)
	proB := createProfessional(t, db)

	d := NewDispatcher(db, newTrustService(), 16, 2)
	d.Start(context.Background())

	d.TriggerTrustScoreUpdate(proA.ID, models.TrustEventJobCompleted)
	d.TriggerTrustScoreUpdate(proB.ID, models.TrustEventReviewReceived)
	d.Stop()

	var count int64
	require.NoError(t, db.Model(&models.TrustScore{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
