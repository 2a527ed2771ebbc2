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

	"github.com/Acedia413/time-management-sub000/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

type submissionRow struct {
	ID          string      `db:"id"`
	TaskID      string      `db:"task_id"`
	StudentID   string      `db:"student_id"`
	Content     null.String `db:"content"`
	FileURL     null.String `db:"file_url"`
	SubmittedAt time.Time   `db:"submitted_at"`
}

func (repo submissionRepository) unrow(r submissionRow) submission.Submission {
	return submission.Submission{
		ID:          r.ID,
		TaskID:      r.TaskID,
		StudentID:   r.StudentID,
		Content:     r.Content,
		FileURL:     r.FileURL,
		SubmittedAt: r.SubmittedAt,
	}
}

func (repo submissionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return submission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// UpsertSubmission inserts or, for an existing (task, student) pair, replaces
// the row's content in place.
func (repo submissionRepository) UpsertSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	var r submissionRow
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO submission (id, task_id, student_id, content, file_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (task_id, student_id) DO UPDATE
		SET content = EXCLUDED.content, file_url = EXCLUDED.file_url, submitted_at = EXCLUDED.submitted_at
		RETURNING *`,
		uuid.New().String(), s.TaskID, s.StudentID, s.Content, s.FileURL, s.SubmittedAt.UTC(),
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return repo.unrow(r), nil
}

func (repo submissionRepository) QuerySubmissionsByTask(ctx context.Context, taskID string) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM submission WHERE task_id = $1 ORDER BY submitted_at`, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, repo.unrow(r))
	}
	return subs, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return submission.Submission{}, submission.ErrNotFound
	}
	var r submissionRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM submission WHERE id = $1`, id); err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "finding submission")
	}
	return repo.unrow(r), nil
}

func (repo submissionRepository) DeleteSubmissionsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM submission WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting submissions")
	}
	return nil
}
