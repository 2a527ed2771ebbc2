package submission

import (
	"context"
	"errors"
	"time"

	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

var (
	// errors
	ErrNotFound   = errors.New("submission not found")
	ErrForbidden  = errors.New("permission denied")
	ErrTaskClosed = errors.New("task does not accept submissions")
)

type (
	Repository interface {
		// UpsertSubmission stores the submission keyed by (task, student):
		// a student re-submitting updates their existing row in place.
		UpsertSubmission(ctx context.Context, s Submission) (Submission, error)
		QuerySubmissionsByTask(ctx context.Context, taskID string) ([]Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		DeleteSubmissionsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Submit(ctx context.Context, usr user.User, taskID string, ns NewSubmission) (Submission, error)
		QueryByTask(ctx context.Context, usr user.User, taskID string) ([]Submission, error)
		Delete(ctx context.Context, usr user.User, id string) error
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

// Submit hands in usr's deliverable for the task. Only students submit, the
// task must be visible to them and still open for work.
func (svc *service) Submit(ctx context.Context, usr user.User, taskID string, ns NewSubmission) (Submission, error) {
	t, err := svc.taskSvc.Get(ctx, usr, taskID)
	if err != nil {
		return Submission{}, err
	}
	if !usr.IsStudent() {
		return Submission{}, ErrForbidden
	}
	if !t.IsPlannable() {
		return Submission{}, ErrTaskClosed
	}
	return svc.repo.UpsertSubmission(ctx, Submission{
		TaskID:      t.ID,
		StudentID:   usr.ID,
		Content:     ns.Content,
		FileURL:     ns.FileURL,
		SubmittedAt: time.Now().UTC(),
	})
}

// QueryByTask lists the task's submissions: teachers and admins see all of
// them, a student only their own.
func (svc *service) QueryByTask(ctx context.Context, usr user.User, taskID string) ([]Submission, error) {
	if _, err := svc.taskSvc.Get(ctx, usr, taskID); err != nil {
		return nil, err
	}
	subs, err := svc.repo.QuerySubmissionsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if usr.IsTeacher() || usr.IsAdmin() {
		return subs, nil
	}
	own := make([]Submission, 0, 1)
	for _, s := range subs {
		if s.StudentID == usr.ID {
			own = append(own, s)
		}
	}
	return own, nil
}

// Delete checks existence before authorization, so a caller never learns
// about a submission they may not touch by probing for 403s.
func (svc *service) Delete(ctx context.Context, usr user.User, id string) error {
	s, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(usr, s) {
		return ErrForbidden
	}
	return svc.repo.DeleteSubmissionsByID(ctx, id)
}
