package workers

import (
	"context"
	"sync"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/services"

	"gorm.io/gorm"
)

// recalcTask is one scheduled trust-score recalculation.
type recalcTask struct {
	userID string
	event  models.TrustEvent
}

// Dispatcher runs trust-score recalculations in the background. It
// implements services.TrustScoreTrigger: triggering never blocks the
// caller and failures never propagate back to the request that caused
// them. Two concurrent recalculations for the same user are harmless
// because the calculation reads a full snapshot and upserts the result.
type Dispatcher struct {
	db      *gorm.DB
	trust   services.TrustScoreService
	tasks   chan recalcTask
	workers int
	wg      sync.WaitGroup
	once    sync.Once
}

func NewDispatcher(db *gorm.DB, trust services.TrustScoreService, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		db:      db,
		trust:   trust,
		tasks:   make(chan recalcTask, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool. Workers drain the queue until the
// context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
	logger.Info("trust score dispatcher started",
		"workers", d.workers,
		"queue_size", cap(d.tasks))
}

// Stop waits for in-flight recalculations to finish. The queue must be
// closed exactly once; later triggers are dropped by the send path.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.tasks)
	})
	d.wg.Wait()
}

// TriggerTrustScoreUpdate schedules a recalculation. When the queue is
// full the task is dropped and logged; a later trigger will catch up
// since every run recomputes from current state.
func (d *Dispatcher) TriggerTrustScoreUpdate(userID string, event models.TrustEvent) {
	defer func() {
		// Sending on the closed queue during shutdown is a drop, not
		// a crash.
		if r := recover(); r != nil {
			logger.Warn("trust score trigger dropped after shutdown",
				"user_id", userID,
				"event", event)
		}
	}()

	select {
	case d.tasks <- recalcTask{userID: userID, event: event}:
	default:
		logger.Warn("trust score queue full, trigger dropped",
			"user_id", userID,
			"event", event)
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			logger.Info("trust score worker stopped", "worker", id)
			return
		case task, ok := <-d.tasks:
			if !ok {
				return
			}
			d.process(task)
		}
	}
}

// process runs one recalculation with panic isolation so a bad record
// cannot take down the pool.
func (d *Dispatcher) process(task recalcTask) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("trust score recalculation panicked",
				"user_id", task.userID,
				"event", task.event,
				"panic", r)
		}
	}()

	if _, err := d.trust.CalculateTrustScore(d.db, task.userID); err != nil {
		logger.WorkerLog("trust_dispatcher", "recalculate "+task.userID, err)
		return
	}

	logger.Debug("trust score recalculated",
		"user_id", task.userID,
		"event", task.event)
}
