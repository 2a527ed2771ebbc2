package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core/submission"
	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
)

func Test_submissionApi_submit(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "")

	open := createTask(t, db, task.Task{Title: "Open", CreatedByID: teacher.ID})
	closed := createTask(t, db, task.Task{Title: "Closed", Status: task.StatusClosed, CreatedByID: teacher.ID})

	tests := []httpTest{
		{
			name: "empty submission", method: http.MethodPost, path: "/v1/tasks/" + open.ID + "/submissions",
			body: []byte(`{}`), token: getToken(t, stu), wantCode: http.StatusBadRequest,
		},
		{
			name: "teacher cannot submit", method: http.MethodPost, path: "/v1/tasks/" + open.ID + "/submissions",
			body: []byte(`{"content": "an answer"}`), token: getToken(t, teacher), wantCode: http.StatusForbidden,
		},
		{
			name: "closed task", method: http.MethodPost, path: "/v1/tasks/" + closed.ID + "/submissions",
			body: []byte(`{"content": "too late"}`), token: getToken(t, stu), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "task does not accept submissions"}),
		},
		{
			name: "student submits", method: http.MethodPost, path: "/v1/tasks/" + open.ID + "/submissions",
			body: []byte(`{"content": "an answer"}`), token: getToken(t, stu), wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// re-submitting replaces the previous submission
	req, rec := newAuthRequest(http.MethodPost, "/v1/tasks/"+open.ID+"/submissions",
		getToken(t, stu), []byte(`{"content": "revised"}`))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/tasks/"+open.ID+"/submissions", getToken(t, teacher))
	srv.ServeHTTP(rec, req)
	var subs []submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	if assert.Len(t, subs, 1) {
		assert.Equal(t, null.StringFrom("revised"), subs[0].Content)
	}
}

func Test_submissionApi_queryByTask(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	stu1 := createUser(t, db, "Student1", "student1", "student1@test.cd", "", []string{user.RoleStudent}, "")
	stu2 := createUser(t, db, "Student2", "student2", "student2@test.cd", "", []string{user.RoleStudent}, "")

	open := createTask(t, db, task.Task{Title: "Open", CreatedByID: teacher.ID})

	for _, tok := range []string{getToken(t, stu1), getToken(t, stu2)} {
		req, rec := newAuthRequest(http.MethodPost, "/v1/tasks/"+open.ID+"/submissions", tok, []byte(`{"content": "x"}`))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seeding submission failed: %v %s", rec.Code, rec.Body.String())
		}
	}

	// teacher sees both submissions
	req, rec := newAuthRequest(http.MethodGet, "/v1/tasks/"+open.ID+"/submissions", getToken(t, teacher))
	srv.ServeHTTP(rec, req)
	var subs []submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	assert.Len(t, subs, 2)

	// a student only their own
	req, rec = newAuthRequest(http.MethodGet, "/v1/tasks/"+open.ID+"/submissions", getToken(t, stu1))
	srv.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}
	if assert.Len(t, subs, 1) {
		assert.Equal(t, stu1.ID, subs[0].StudentID)
	}
}

func Test_submissionApi_destroy(t *testing.T) {
	srv, db := newTestServer(t)

	teacher := createUser(t, db, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, "")
	owner := createUser(t, db, "Owner", "owner1", "owner@test.cd", "", []string{user.RoleStudent}, "")
	other := createUser(t, db, "Other", "other1", "other@test.cd", "", []string{user.RoleStudent}, "")

	open := createTask(t, db, task.Task{Title: "Open", CreatedByID: teacher.ID})

	req, rec := newAuthRequest(http.MethodPost, "/v1/tasks/"+open.ID+"/submissions", getToken(t, owner), []byte(`{"content": "mine"}`))
	srv.ServeHTTP(rec, req)
	var sub submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("unmarshalling response failed: %v", err)
	}

	tests := []httpTest{
		{
			name: "another student cannot delete", method: http.MethodDelete, path: "/v1/submissions/" + sub.ID,
			token: getToken(t, other), wantCode: http.StatusForbidden,
		},
		{
			name: "missing submission", method: http.MethodDelete, path: "/v1/submissions/nope",
			token: getToken(t, other), wantCode: http.StatusNotFound,
		},
		{
			name: "owner deletes", method: http.MethodDelete, path: "/v1/submissions/" + sub.ID,
			token: getToken(t, owner), wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}
