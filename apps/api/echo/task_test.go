package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

func Test_taskApi_query(t *testing.T) {
	srv, db := newTestServer(t)

	groupA := "group-a"
	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, groupA)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 := createTask(t, db, task.Task{Title: "T1", GroupID: null.StringFrom(groupA),
		DueDate: null.TimeFrom(base.AddDate(0, 0, 3)), CreatedAt: base, CreatedByID: teacher.ID})
	t2 := createTask(t, db, task.Task{Title: "T2",
		DueDate: null.TimeFrom(base.AddDate(0, 0, 9)), CreatedAt: base, CreatedByID: teacher.ID})
	createTask(t, db, task.Task{Title: "T3", GroupID: null.StringFrom("group-b"),
		CreatedAt: base, CreatedByID: teacher.ID})

	req, rec := newAuthRequest(http.MethodGet, "/v1/tasks", getToken(t, stu))
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got []task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	// other group's task filtered out; due date ascending
	ids := make([]string, 0, len(got))
	for _, tsk := range got {
		ids = append(ids, tsk.ID)
	}
	assert.Equal(t, []string{t1.ID, t2.ID}, ids)
}

func Test_taskApi_create(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "")

	tests := []httpTest{
		{
			name: "anonymous is rejected", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title": "Essay"}`), wantCode: http.StatusUnauthorized,
		},
		{
			name: "student cannot create", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title": "Essay"}`), token: getToken(t, stu),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "missing title", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{}`), token: getToken(t, teacher), wantCode: http.StatusBadRequest,
		},
		{
			name: "bad status", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title": "Essay", "status": "paused"}`), token: getToken(t, teacher),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "teacher creates", method: http.MethodPost, path: "/v1/tasks",
			body: []byte(`{"title": "Essay"}`), token: getToken(t, teacher), wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// created task defaults to active and records its creator
	req, rec := newAuthRequest(http.MethodGet, "/v1/tasks", getToken(t, teacher))
	srv.ServeHTTP(rec, req)
	var got []task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	if assert.Len(t, got, 1) {
		assert.Equal(t, task.StatusActive, got[0].Status)
		assert.Equal(t, teacher.ID, got[0].CreatedByID)
	}
}

func Test_taskApi_retrieve(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "group-a")
	hidden := createTask(t, db, task.Task{Title: "Hidden", GroupID: null.StringFrom("group-b"), CreatedByID: teacher.ID})

	tests := []httpTest{
		{
			name: "missing task is 404", method: http.MethodGet, path: "/v1/tasks/nope",
			token: getToken(t, stu), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "invisible task is 403", method: http.MethodGet, path: "/v1/tasks/" + hidden.ID,
			token: getToken(t, stu), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "teacher reads any task", method: http.MethodGet, path: "/v1/tasks/" + hidden.ID,
			token: getToken(t, teacher), wantCode: http.StatusOK, wantData: marchallObj(t, hidden),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taskApi_update(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	other := createUser(t, db, "Other", "other1", "other@test.cd", "", []string{user.RoleTeacher}, "")

	due := time.Date(2025, 6, 20, 17, 0, 0, 0, time.UTC)
	tsk := createTask(t, db, task.Task{
		Title:       "Essay",
		Description: null.StringFrom("draft"),
		DueDate:     null.TimeFrom(due),
		CreatedByID: teacher.ID,
	})

	// a teacher who is not the creator may not mutate
	req, rec := newAuthRequest(http.MethodPatch, "/v1/tasks/"+tsk.ID, getToken(t, other), []byte(`{"title": "Hijack"}`))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// omitted fields stay untouched
	req, rec = newAuthRequest(http.MethodPatch, "/v1/tasks/"+tsk.ID, getToken(t, teacher), []byte(`{"title": "Final Essay"}`))
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var got task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Equal(t, "Final Essay", got.Title)
	assert.Equal(t, null.StringFrom("draft"), got.Description)
	assert.True(t, got.DueDate.Valid)

	// explicit nulls clear nullable fields
	req, rec = newAuthRequest(http.MethodPatch, "/v1/tasks/"+tsk.ID, getToken(t, teacher), []byte(`{"due_date": null, "description": null}`))
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.False(t, got.DueDate.Valid)
	assert.False(t, got.Description.Valid)
	assert.Equal(t, "Final Essay", got.Title)
}

func Test_taskApi_destroy(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	admin := createUser(t, db, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, "")
	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "")

	tsk := createTask(t, db, task.Task{Title: "Essay", CreatedByID: teacher.ID})

	tests := []httpTest{
		{
			name: "student cannot delete", method: http.MethodDelete, path: "/v1/tasks/" + tsk.ID,
			token: getToken(t, stu), wantCode: http.StatusForbidden,
		},
		{
			name: "admin deletes any task", method: http.MethodDelete, path: "/v1/tasks/" + tsk.ID,
			token: getToken(t, admin), wantCode: http.StatusNoContent,
		},
		{
			name: "deleting again is 404", method: http.MethodDelete, path: "/v1/tasks/" + tsk.ID,
			token: getToken(t, admin), wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
		})
	}
}
