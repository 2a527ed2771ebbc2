package planner

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

var (
	// errors
	ErrNotPlannable = errors.New("task cannot be scheduled")
)

type (
	Repository interface {
		QueryPriorities(ctx context.Context, userID string) ([]PriorityRecord, error)
		SetTaskPriority(ctx context.Context, userID, taskID string, priority int64) (PriorityRecord, error)
		// SetTaskEstimate sets or clears (invalid minutes) the estimate,
		// leaving the record's priority untouched.
		SetTaskEstimate(ctx context.Context, userID, taskID string, minutes null.Int) (PriorityRecord, error)
		// ReorderPriorities assigns priorities 0..n-1 matching the given task
		// order, preserving estimates. The batch is applied atomically
		// relative to other batches touching the same records: concurrent
		// reorders never interleave into a corrupted ordering.
		ReorderPriorities(ctx context.Context, userID string, taskIDs []string) error
	}

	Service interface {
		Plan(ctx context.Context, usr user.User, now time.Time) (map[Bucket][]task.Task, error)
		QueryRecords(ctx context.Context, usr user.User) ([]PriorityRecord, error)
		SetPriority(ctx context.Context, usr user.User, taskID string, priority int64) (PriorityRecord, error)
		SetEstimate(ctx context.Context, usr user.User, taskID string, minutes null.Int) (PriorityRecord, error)
		Reorder(ctx context.Context, usr user.User, taskIDs []string) error
	}

	service struct {
		repo    Repository
		taskSvc task.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, taskSvc task.Service) Service {
	return &service{
		repo:    repo,
		taskSvc: taskSvc,
	}
}

// Plan returns usr's visible tasks bucketed by deadline urgency, ordered by
// usr's priorities within each bucket.
func (svc *service) Plan(ctx context.Context, usr user.User, now time.Time) (map[Bucket][]task.Task, error) {
	tasks, err := svc.taskSvc.Query(ctx, usr)
	if err != nil {
		return nil, err
	}
	records, err := svc.repo.QueryPriorities(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	return Classify(now, tasks, records), nil
}

func (svc *service) QueryRecords(ctx context.Context, usr user.User) ([]PriorityRecord, error) {
	return svc.repo.QueryPriorities(ctx, usr.ID)
}

// checkPlannable resolves the task with the usual existence-then-authorization
// order and rejects tasks outside the planning view.
func (svc *service) checkPlannable(ctx context.Context, usr user.User, taskID string) error {
	t, err := svc.taskSvc.Get(ctx, usr, taskID)
	if err != nil {
		return err
	}
	if !t.IsPlannable() {
		return ErrNotPlannable
	}
	return nil
}

func (svc *service) SetPriority(ctx context.Context, usr user.User, taskID string, priority int64) (PriorityRecord, error) {
	if err := svc.checkPlannable(ctx, usr, taskID); err != nil {
		return PriorityRecord{}, err
	}
	return svc.repo.SetTaskPriority(ctx, usr.ID, taskID, priority)
}

func (svc *service) SetEstimate(ctx context.Context, usr user.User, taskID string, minutes null.Int) (PriorityRecord, error) {
	if err := svc.checkPlannable(ctx, usr, taskID); err != nil {
		return PriorityRecord{}, err
	}
	return svc.repo.SetTaskEstimate(ctx, usr.ID, taskID, minutes)
}

// Reorder applies a client-observed bucket ordering as one batch: every task
// gets a contiguous priority 0..n-1 matching its position, estimates are kept.
// Applying the same observed order twice yields the same assignment.
func (svc *service) Reorder(ctx context.Context, usr user.User, taskIDs []string) error {
	for _, id := range taskIDs {
		if err := svc.checkPlannable(ctx, usr, id); err != nil {
			return err
		}
	}
	return svc.repo.ReorderPriorities(ctx, usr.ID, taskIDs)
}
