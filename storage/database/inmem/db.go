// Package inmem provides in-memory repositories backed by plain maps. They
// exist for tests and local hacking, not for production use.
package inmem

import (
	"sync"

	"github.com/Acedia413/time-management-sub000/core/planner"
	"github.com/Acedia413/time-management-sub000/core/submission"
	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

type DB struct {
	mu          sync.RWMutex
	users       map[string]user.User
	tasks       map[string]task.Task
	submissions map[string]submission.Submission
	priorities  map[string]planner.PriorityRecord // keyed by userID + "/" + taskID
}

func Open() *DB {
	return &DB{
		users:       make(map[string]user.User),
		tasks:       make(map[string]task.Task),
		submissions: make(map[string]submission.Submission),
		priorities:  make(map[string]planner.PriorityRecord),
	}
}

func priorityKey(userID, taskID string) string {
	return userID + "/" + taskID
}
