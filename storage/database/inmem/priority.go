package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/planner"
)

type priorityRepository struct {
	db *DB
}

var _ planner.Repository = (*priorityRepository)(nil) // interface compliance check

func NewPriorityRepository(db *DB) *priorityRepository {
	return &priorityRepository{db: db}
}

func (repo priorityRepository) QueryPriorities(ctx context.Context, userID string) ([]planner.PriorityRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := make([]planner.PriorityRecord, 0)
	for _, rec := range repo.db.priorities {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	// prioritized records first, in priority order
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Priority, records[j].Priority
		if pi.Valid != pj.Valid {
			return pi.Valid
		}
		if pi.Valid {
			return pi.Int < pj.Int
		}
		return records[i].UpdatedAt.Before(records[j].UpdatedAt)
	})
	return records, nil
}

func (repo priorityRepository) SetTaskPriority(ctx context.Context, userID, taskID string, priority int64) (planner.PriorityRecord, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return repo.setPriority(userID, taskID, priority, time.Now().UTC()), nil
}

// setPriority upserts the record's priority, keeping its estimate. Callers
// must hold the write lock.
func (repo priorityRepository) setPriority(userID, taskID string, priority int64, now time.Time) planner.PriorityRecord {
	key := priorityKey(userID, taskID)
	rec, ok := repo.db.priorities[key]
	if !ok {
		rec = planner.PriorityRecord{UserID: userID, TaskID: taskID}
	}
	rec.Priority = null.IntFrom(int(priority))
	rec.UpdatedAt = now
	repo.db.priorities[key] = rec
	return rec
}

func (repo priorityRepository) SetTaskEstimate(ctx context.Context, userID, taskID string, minutes null.Int) (planner.PriorityRecord, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := priorityKey(userID, taskID)
	rec, ok := repo.db.priorities[key]
	if !ok {
		rec = planner.PriorityRecord{UserID: userID, TaskID: taskID}
	}
	rec.EstimatedMinutes = minutes
	rec.UpdatedAt = time.Now().UTC()
	repo.db.priorities[key] = rec
	return rec, nil
}

func (repo priorityRepository) ReorderPriorities(ctx context.Context, userID string, taskIDs []string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	now := time.Now().UTC()
	for i, taskID := range taskIDs {
		repo.setPriority(userID, taskID, int64(i), now)
	}
	return nil
}
