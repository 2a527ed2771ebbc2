package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

type taskRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	Status      string      `db:"status"`
	DueDate     null.Time   `db:"due_date"`
	GroupID     null.String `db:"group_id"`
	CreatedByID string      `db:"created_by_id"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (repo taskRepository) row(t task.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		GroupID:     t.GroupID,
		CreatedByID: t.CreatedByID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (repo taskRepository) unrow(r taskRow) task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		DueDate:     r.DueDate,
		GroupID:     r.GroupID,
		CreatedByID: r.CreatedByID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (repo taskRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return task.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.New().String()
	r := repo.row(t)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO task (id, title, description, status, due_date, group_id, created_by_id, created_at, updated_at)
		VALUES (:id, :title, :description, :status, :due_date, :group_id, :created_by_id, :created_at, :updated_at)`, r)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return repo.unrow(r), nil
}

func (repo taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM task`); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, repo.unrow(r))
	}
	return tasks, nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return task.Task{}, task.ErrNotFound
	}
	var r taskRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM task WHERE id = $1`, id); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "finding task")
	}
	return repo.unrow(r), nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	var r taskRow
	err := repo.db.GetContext(ctx, &r, `
		UPDATE task
		SET title = $1, description = $2, status = $3, due_date = $4, group_id = $5, updated_at = $6
		WHERE id = $7
		RETURNING *`,
		t.Title, t.Description, t.Status, t.DueDate, t.GroupID, t.UpdatedAt.UTC(), t.ID,
	)
	if err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "updating task")
	}
	return repo.unrow(r), nil
}

// DeleteTasksByID removes tasks; submissions and priority records referencing
// them are removed by the schema's cascading foreign keys.
func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM task WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
