package inmem

import (
	"context"

	"github.com/google/uuid"

	"github.com/Acedia413/time-management-sub000/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = uuid.New().String()
	repo.db.tasks[t.ID] = t
	return t, nil
}

func (repo taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tasks := make([]task.Task, 0, len(repo.db.tasks))
	for _, t := range repo.db.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	t, ok := repo.db.tasks[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tasks[t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.tasks[t.ID] = t
	return t, nil
}

// DeleteTasksByID removes tasks and cascades into submissions and priority
// records, mirroring the SQL schema's foreign keys.
func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.tasks, id)
		for sid, s := range repo.db.submissions {
			if s.TaskID == id {
				delete(repo.db.submissions, sid)
			}
		}
		for key, rec := range repo.db.priorities {
			if rec.TaskID == id {
				delete(repo.db.priorities, key)
			}
		}
	}
	return nil
}
