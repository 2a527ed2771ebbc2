package task

import (
	"sort"

	"github.com/Acedia413/time-management-sub000/core/user"
)

// The access rules are pure functions of the acting user and the task's
// ownership/group attributes. The user value is always threaded in
// explicitly; nothing here reads ambient request state.

// VisibleTo reports whether usr may read the task.
// Teachers and admins see every task; students only see global tasks and
// tasks restricted to their own group.
func VisibleTo(usr user.User, t Task) bool {
	if usr.IsTeacher() || usr.IsAdmin() {
		return true
	}
	if t.IsGlobal() {
		return true
	}
	return usr.GroupID.Valid && usr.GroupID.String == t.GroupID.String
}

// CanCreate reports whether usr may create tasks.
func CanCreate(usr user.User) bool {
	return usr.IsTeacher() || usr.IsAdmin()
}

// CanMutate reports whether usr may update or delete the task.
// Only the creator or an admin may; another teacher may not, even though
// they could create tasks of their own.
func CanMutate(usr user.User, t Task) bool {
	return usr.IsAdmin() || usr.ID == t.CreatedByID
}

// FilterVisible returns the subset of tasks usr may read, in deadline order.
func FilterVisible(usr user.User, tasks []Task) []Task {
	visible := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if VisibleTo(usr, t) {
			visible = append(visible, t)
		}
	}
	SortByDeadline(visible)
	return visible
}

// SortByDeadline orders tasks by due date ascending with tasks lacking a due
// date last, ties broken by creation time descending. Callers rely on this
// ordering for display; it is part of the listing contract.
func SortByDeadline(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ti, tj := tasks[i], tasks[j]
		switch {
		case ti.DueDate.Valid && !tj.DueDate.Valid:
			return true
		case !ti.DueDate.Valid && tj.DueDate.Valid:
			return false
		case ti.DueDate.Valid && tj.DueDate.Valid && !ti.DueDate.Time.Equal(tj.DueDate.Time):
			return ti.DueDate.Time.Before(tj.DueDate.Time)
		}
		return ti.CreatedAt.After(tj.CreatedAt)
	})
}
