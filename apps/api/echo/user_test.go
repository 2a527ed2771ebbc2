package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Acedia413/time-management-sub000/core/user"
	"github.com/Acedia413/time-management-sub000/storage/database/inmem"
)

func Test_userApi_login(t *testing.T) {
	srv, db := newTestServer(t)

	createUser(t, db, "Student", "student", "student@test.cd", "D3@dDr0p!!", []string{user.RoleStudent}, "")

	tests := []httpTest{
		{
			name: "empty credentials", method: http.MethodPost, path: "/v1/users/login",
			body: []byte(`{}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/v1/users/login",
			body:     []byte(`{"username": "nobody", "password": "whatever"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login",
			body:     []byte(`{"username": "student", "password": "wrong"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "login with username", method: http.MethodPost, path: "/v1/users/login",
			body: []byte(`{"username": "student", "password": "D3@dDr0p!!"}`), wantCode: http.StatusOK,
		},
		{
			name: "login with email", method: http.MethodPost, path: "/v1/users/login",
			body: []byte(`{"username": "student@test.cd", "password": "D3@dDr0p!!"}`), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_login_deactivated(t *testing.T) {
	srv, db := newTestServer(t)

	usr := createUser(t, db, "Gone", "gone123", "gone@test.cd", "D3@dDr0p!!", []string{user.RoleStudent}, "")
	inactive := false
	if _, err := inmem.NewUserRepository(db).UpdateUser(context.Background(), user.User{ID: usr.ID}, &inactive, nil); err != nil {
		t.Fatalf("deactivating user failed: %v", err)
	}

	req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(`{"username": "gone123", "password": "D3@dDr0p!!"}`))
	srv.ServeHTTP(rec, req)

	tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})}
	checkCodeAndData(t, tt, rec)
}

func Test_userApi_query_adminOnly(t *testing.T) {
	srv, db := newTestServer(t)

	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "")
	admin := createUser(t, db, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, "")

	tests := []httpTest{
		{
			name: "anonymous", method: http.MethodGet, path: "/v1/users", wantCode: http.StatusUnauthorized,
		},
		{
			name: "student is rejected", method: http.MethodGet, path: "/v1/users",
			token: getToken(t, stu), wantCode: http.StatusForbidden,
		},
		{
			name: "admin lists users", method: http.MethodGet, path: "/v1/users",
			token: getToken(t, admin), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var users []user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				assert.Len(t, users, 2)
			}
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	srv, db := newTestServer(t)

	stu := createUser(t, db, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, "")
	other := createUser(t, db, "Other", "other1", "other@test.cd", "", []string{user.RoleStudent}, "")
	admin := createUser(t, db, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdmin}, "")

	tests := []httpTest{
		{
			name: "self", method: http.MethodGet, path: "/v1/users/" + stu.ID,
			token: getToken(t, stu), wantCode: http.StatusOK, wantData: marchallObj(t, stu),
		},
		{
			name: "another user is hidden", method: http.MethodGet, path: "/v1/users/" + other.ID,
			token: getToken(t, stu), wantCode: http.StatusNotFound,
		},
		{
			name: "admin reads anyone", method: http.MethodGet, path: "/v1/users/" + other.ID,
			token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, other),
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
