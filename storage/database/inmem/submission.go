package inmem

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Acedia413/time-management-sub000/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) UpsertSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, existing := range repo.db.submissions {
		if existing.TaskID == s.TaskID && existing.StudentID == s.StudentID {
			s.ID = id
			repo.db.submissions[id] = s
			return s, nil
		}
	}
	s.ID = uuid.New().String()
	repo.db.submissions[s.ID] = s
	return s, nil
}

func (repo submissionRepository) QuerySubmissionsByTask(ctx context.Context, taskID string) ([]submission.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, s := range repo.db.submissions {
		if s.TaskID == taskID {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	s, ok := repo.db.submissions[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	return s, nil
}

func (repo submissionRepository) DeleteSubmissionsByID(ctx context.Context, ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.submissions, id)
	}
	return nil
}
