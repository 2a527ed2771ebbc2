package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/Acedia413/time-management-sub000/core"
	"github.com/Acedia413/time-management-sub000/core/planner"
	"github.com/Acedia413/time-management-sub000/core/submission"
	"github.com/Acedia413/time-management-sub000/core/task"
	"github.com/Acedia413/time-management-sub000/core/user"
	emailsvc "github.com/Acedia413/time-management-sub000/services/email"
	logsvc "github.com/Acedia413/time-management-sub000/services/logger"
	"github.com/Acedia413/time-management-sub000/storage/database/inmem"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newTestServer(t *testing.T) (Server, *inmem.DB) {
	t.Helper()

	core.Conf.Debug = false
	core.Conf.TestMode = true

	db := inmem.Open()
	usrSvc := user.NewService(inmem.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	taskSvc := task.NewService(inmem.NewTaskRepository(db))
	subSvc := submission.NewService(inmem.NewSubmissionRepository(db), taskSvc)
	planSvc := planner.NewService(inmem.NewPriorityRepository(db), taskSvc)

	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))

	return NewServer(&Options{
		Addr:           ":0",
		DisableReqLogs: true,
		Logger:         logger,
		UserSvc:        usrSvc,
		TaskSvc:        taskSvc,
		SubmissionSvc:  subSvc,
		PlannerSvc:     planSvc,
	}), db
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createUser(t *testing.T, db *inmem.DB, name, uname, email, pwd string, roles []string, groupID string) user.User {
	t.Helper()
	now := time.Now().UTC()
	isActive := true
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  &isActive,
		Roles:     roles,
		GroupID:   null.NewString(groupID, groupID != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := inmem.NewUserRepository(db).CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createTask(t *testing.T, db *inmem.DB, tsk task.Task) task.Task {
	t.Helper()
	now := time.Now().UTC()
	if tsk.Status == "" {
		tsk.Status = task.StatusActive
	}
	if tsk.CreatedAt.IsZero() {
		tsk.CreatedAt = now
	}
	tsk.UpdatedAt = now
	tsk, err := inmem.NewTaskRepository(db).CreateTask(context.Background(), tsk)
	if err != nil {
		t.Fatalf("createTask() failed: %v", err)
	}
	return tsk
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
