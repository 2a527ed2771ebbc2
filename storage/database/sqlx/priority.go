package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/planner"
)

type priorityRepository struct {
	db *sqlx.DB
}

var _ planner.Repository = (*priorityRepository)(nil) // interface compliance check

func NewPriorityRepository(db *sqlx.DB) *priorityRepository {
	return &priorityRepository{db: db}
}

type priorityRow struct {
	UserID           string    `db:"user_id"`
	TaskID           string    `db:"task_id"`
	Priority         null.Int  `db:"priority"`
	EstimatedMinutes null.Int  `db:"estimated_minutes"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (repo priorityRepository) unrow(r priorityRow) planner.PriorityRecord {
	return planner.PriorityRecord{
		UserID:           r.UserID,
		TaskID:           r.TaskID,
		Priority:         r.Priority,
		EstimatedMinutes: r.EstimatedMinutes,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (repo priorityRepository) QueryPriorities(ctx context.Context, userID string) ([]planner.PriorityRecord, error) {
	var rows []priorityRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM task_priority WHERE user_id = $1 ORDER BY priority NULLS LAST, updated_at`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying priorities")
	}
	records := make([]planner.PriorityRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, repo.unrow(r))
	}
	return records, nil
}

func (repo priorityRepository) SetTaskPriority(ctx context.Context, userID, taskID string, priority int64) (planner.PriorityRecord, error) {
	var r priorityRow
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO task_priority (user_id, task_id, priority, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, task_id) DO UPDATE
		SET priority = EXCLUDED.priority, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		userID, taskID, priority, time.Now().UTC(),
	)
	if err != nil {
		return planner.PriorityRecord{}, errors.Wrap(err, "setting priority")
	}
	return repo.unrow(r), nil
}

func (repo priorityRepository) SetTaskEstimate(ctx context.Context, userID, taskID string, minutes null.Int) (planner.PriorityRecord, error) {
	var r priorityRow
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO task_priority (user_id, task_id, estimated_minutes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, task_id) DO UPDATE
		SET estimated_minutes = EXCLUDED.estimated_minutes, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		userID, taskID, minutes, time.Now().UTC(),
	)
	if err != nil {
		return planner.PriorityRecord{}, errors.Wrap(err, "setting estimate")
	}
	return repo.unrow(r), nil
}

// ReorderPriorities runs the whole batch in one transaction so concurrent
// reorders by the same user never interleave into a broken sequence.
func (repo priorityRepository) ReorderPriorities(ctx context.Context, userID string, taskIDs []string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting reorder transaction")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i, taskID := range taskIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_priority (user_id, task_id, priority, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, task_id) DO UPDATE
			SET priority = EXCLUDED.priority, updated_at = EXCLUDED.updated_at`,
			userID, taskID, i, now,
		)
		if err != nil {
			return errors.Wrap(err, "reordering priorities")
		}
	}
	return errors.Wrap(tx.Commit(), "committing reorder")
}
