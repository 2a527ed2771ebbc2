package task

import (
	"context"
	"errors"
	"time"

	"github.com/Acedia413/time-management-sub000/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("task not found")
	ErrForbidden = errors.New("permission denied")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		QueryAllTasks(ctx context.Context) ([]Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		// DeleteTasksByID removes tasks together with their submissions and
		// priority records, atomically per call.
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Query(ctx context.Context, usr user.User) ([]Task, error)
		Get(ctx context.Context, usr user.User, id string) (Task, error)
		Create(ctx context.Context, usr user.User, nt NewTask) (Task, error)
		Update(ctx context.Context, usr user.User, id string, ut UpdateTask) (Task, error)
		Delete(ctx context.Context, usr user.User, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Query returns the tasks visible to usr, ordered per the listing contract.
func (svc *service) Query(ctx context.Context, usr user.User) ([]Task, error) {
	tasks, err := svc.repo.QueryAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisible(usr, tasks), nil
}

// Get checks existence before authorization: an absent task is ErrNotFound
// for everyone, an existing one usr may not read is ErrForbidden.
func (svc *service) Get(ctx context.Context, usr user.User, id string) (Task, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !VisibleTo(usr, t) {
		return Task{}, ErrForbidden
	}
	return t, nil
}

func (svc *service) Create(ctx context.Context, usr user.User, nt NewTask) (Task, error) {
	if !CanCreate(usr) {
		return Task{}, ErrForbidden
	}
	now := time.Now().UTC()
	t := Task{
		Title:       nt.Title,
		Description: nt.Description,
		Status:      nt.Status,
		DueDate:     nt.DueDate,
		GroupID:     nt.GroupID,
		CreatedByID: usr.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = StatusActive
	}
	return svc.repo.CreateTask(ctx, t)
}

func (svc *service) Update(ctx context.Context, usr user.User, id string, ut UpdateTask) (Task, error) {
	orig, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !CanMutate(usr, orig) {
		return Task{}, ErrForbidden
	}

	// omitted fields stay untouched; provided nulls clear nullable fields
	if ut.Title != "" {
		orig.Title = ut.Title
	}
	if ut.Status != "" {
		orig.Status = ut.Status
	}
	if ut.Description.Set {
		orig.Description = ut.Description.String
	}
	if ut.DueDate.Set {
		orig.DueDate = ut.DueDate.Time
	}
	if ut.GroupID.Set {
		orig.GroupID = ut.GroupID.String
	}
	orig.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateTask(ctx, orig)
}

// Delete permanently removes the task; dependent submissions and priority
// records go with it (cascading removal, no soft delete).
func (svc *service) Delete(ctx context.Context, usr user.User, id string) error {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(usr, t) {
		return ErrForbidden
	}
	return svc.repo.DeleteTasksByID(ctx, id)
}
