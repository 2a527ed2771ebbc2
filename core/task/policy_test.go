package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/user"
)

func newUser(id string, roles []string, groupID string) user.User {
	return user.User{
		ID:      id,
		Roles:   roles,
		GroupID: null.NewString(groupID, groupID != ""),
	}
}

func TestVisibleTo(t *testing.T) {
	groupA := "b2a2e52d-72a1-4a47-8a43-d1b9e42e0a5e"
	groupB := "1e3c4f46-9c21-4a36-8a6b-93a9b90221a7"

	student := newUser("stu", []string{user.RoleStudent}, groupA)
	grouplessStudent := newUser("stu2", []string{user.RoleStudent}, "")
	teacher := newUser("tea", []string{user.RoleTeacher}, "")
	admin := newUser("adm", []string{user.RoleAdmin}, "")

	global := Task{ID: "t1"}
	inGroupA := Task{ID: "t2", GroupID: null.StringFrom(groupA)}
	inGroupB := Task{ID: "t3", GroupID: null.StringFrom(groupB)}

	tests := []struct {
		name string
		usr  user.User
		task Task
		want bool
	}{
		{"student sees global task", student, global, true},
		{"student sees own group's task", student, inGroupA, true},
		{"student does not see other group's task", student, inGroupB, false},
		{"groupless student sees global task", grouplessStudent, global, true},
		{"groupless student sees no group task", grouplessStudent, inGroupA, false},
		{"teacher sees every task", teacher, inGroupB, true},
		{"admin sees every task", admin, inGroupB, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleTo(tt.usr, tt.task); got != tt.want {
				t.Errorf("VisibleTo() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreate(t *testing.T) {
	tests := []struct {
		name string
		usr  user.User
		want bool
	}{
		{"student cannot create", newUser("u", []string{user.RoleStudent}, ""), false},
		{"teacher can create", newUser("u", []string{user.RoleTeacher}, ""), true},
		{"admin can create", newUser("u", []string{user.RoleAdmin}, ""), true},
		{"student-teacher can create", newUser("u", []string{user.RoleStudent, user.RoleTeacher}, ""), true},
		{"no roles cannot create", newUser("u", nil, ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreate(tt.usr); got != tt.want {
				t.Errorf("CanCreate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutate(t *testing.T) {
	owned := Task{ID: "t1", CreatedByID: "owner"}

	tests := []struct {
		name string
		usr  user.User
		want bool
	}{
		{"creator can mutate", newUser("owner", []string{user.RoleTeacher}, ""), true},
		{"other teacher cannot mutate", newUser("other", []string{user.RoleTeacher}, ""), false},
		{"admin can mutate any task", newUser("adm", []string{user.RoleAdmin}, ""), true},
		{"student cannot mutate", newUser("stu", []string{user.RoleStudent}, ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.usr, owned); got != tt.want {
				t.Errorf("CanMutate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestSortByDeadline(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	soon := Task{ID: "soon", DueDate: null.TimeFrom(base.AddDate(0, 0, 2)), CreatedAt: base}
	later := Task{ID: "later", DueDate: null.TimeFrom(base.AddDate(0, 0, 9)), CreatedAt: base}
	noDueOld := Task{ID: "no-due-old", CreatedAt: base.Add(-time.Hour)}
	noDueNew := Task{ID: "no-due-new", CreatedAt: base.Add(time.Hour)}
	sameDueOld := Task{ID: "same-due-old", DueDate: null.TimeFrom(base.AddDate(0, 0, 2)), CreatedAt: base.Add(-time.Hour)}

	tasks := []Task{noDueOld, later, sameDueOld, soon, noDueNew}
	SortByDeadline(tasks)

	got := make([]string, 0, len(tasks))
	for _, tsk := range tasks {
		got = append(got, tsk.ID)
	}
	// due asc first, equal due dates newest-created first, no due date last
	// (newest first there too)
	want := []string{"soon", "same-due-old", "later", "no-due-new", "no-due-old"}
	assert.Equal(t, want, got)
}

func TestFilterVisible(t *testing.T) {
	groupA := "a5b7c1de-0000-4a47-8a43-d1b9e42e0a5e"
	student := newUser("stu", []string{user.RoleStudent}, groupA)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	visible1 := Task{ID: "t1", DueDate: null.TimeFrom(base.AddDate(0, 0, 1)), CreatedAt: base}
	visible2 := Task{ID: "t2", GroupID: null.StringFrom(groupA), CreatedAt: base}
	hidden := Task{ID: "t3", GroupID: null.StringFrom("other-group"), CreatedAt: base}

	got := FilterVisible(student, []Task{hidden, visible2, visible1})

	ids := make([]string, 0, len(got))
	for _, tsk := range got {
		ids = append(ids, tsk.ID)
	}
	assert.Equal(t, []string{"t1", "t2"}, ids)
}
