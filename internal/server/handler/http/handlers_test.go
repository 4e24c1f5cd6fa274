package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/shipdash/internal/middleware"
	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	loginResp *models.LoginResponse
	loginErr  error
	meErr     error
	// meRole, when set, is the account's current role
	meRole models.Role
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	resp := *f.loginResp
	return &resp, nil
}

func (f *fakeAuthService) Me(ctx context.Context, id models.Identity) (*models.Identity, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	if f.meRole != "" {
		id.Role = f.meRole
	}
	return &id, nil
}

// fakeSyncService implements SyncService for testing.
type fakeSyncService struct {
	data     map[string]json.RawMessage
	err      error
	uploaded map[string]json.RawMessage
}

func (f *fakeSyncService) Data(ctx context.Context) (map[string]json.RawMessage, error) {
	return f.data, f.err
}

func (f *fakeSyncService) Upload(ctx context.Context, payload map[string]json.RawMessage) ([]string, error) {
	f.uploaded = payload
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(payload))
	for k := range payload {
		names = append(names, k)
	}
	return names, nil
}

// fakeUserService implements UserService for testing.
type fakeUserService struct {
	users     []models.User
	err       error
	updatedID string
	deletedID string
}

func (f *fakeUserService) List(ctx context.Context) ([]models.User, error) { return f.users, f.err }

func (f *fakeUserService) Create(ctx context.Context, req models.UserRequest) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: "new", Username: req.Username, Role: req.Role}, nil
}

func (f *fakeUserService) Update(ctx context.Context, id string, req models.UserRequest) (models.User, error) {
	f.updatedID = id
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: id, Username: req.Username, Role: req.Role}, nil
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = id
	return nil
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("body %q is not an error object: %v", rec.Body.String(), err)
	}
	return er.Detail
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectedText string
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedText: "invalid request",
		},
		{
			name:         "missing password",
			body:         `{"username":"alice"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedText: "username and password are required",
		},
		{
			name:         "wrong credentials",
			body:         `{"username":"alice","password":"x"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
			expectedText: "Invalid username or password",
		},
		{
			name:         "storage failure",
			body:         `{"username":"alice","password":"x"}`,
			service:      &fakeAuthService{loginErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedText: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if got := detail(t, rec); got != tt.expectedText {
				t.Errorf("detail = %q; want %q", got, tt.expectedText)
			}
		})
	}
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	svc := &fakeAuthService{loginResp: &models.LoginResponse{Token: "t", Username: "Alice", Role: models.RoleAdmin, Expiry: 42}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
	req.RemoteAddr = "10.0.0.7:5555"
	(&AuthHandler{AuthService: svc}).Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := models.LoginResponse{Token: "t", Username: "Alice", Role: models.RoleAdmin, Expiry: 42, IP: "10.0.0.7"}
	if resp != want {
		t.Errorf("response = %+v; want %+v", resp, want)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := &AuthHandler{AuthService: &fakeAuthService{}}

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no identity: status = %d; want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), &models.Identity{Username: "op", Role: models.RoleUser}))
	h.Me(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"op"`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// пользователь удален после выдачи токена
	h.AuthService = &fakeAuthService{meErr: service.ErrInvalidCredentials}
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted user: status = %d; want 401", rec.Code)
	}
}

func TestSyncHandler_Data(t *testing.T) {
	svc := &fakeSyncService{data: map[string]json.RawMessage{"users": json.RawMessage(`[]`), "fedexOrders": json.RawMessage(`[{"id":1}]`)}}
	rec := httptest.NewRecorder()
	(&SyncHandler{SyncService: svc}).Data(rec, httptest.NewRequest(http.MethodGet, "/api/sync/data", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if string(got["fedexOrders"]) != `[{"id":1}]` {
		t.Errorf("fedexOrders = %s", got["fedexOrders"])
	}

	svc.err = errors.New("db down")
	rec = httptest.NewRecorder()
	(&SyncHandler{SyncService: svc}).Data(rec, httptest.NewRequest(http.MethodGet, "/api/sync/data", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}

func TestSyncHandler_Upload(t *testing.T) {
	svc := &fakeSyncService{}
	h := &SyncHandler{SyncService: svc}

	rec := httptest.NewRecorder()
	h.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/sync/upload", strings.NewReader(`[1,2]`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("array body: status = %d; want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/sync/upload", strings.NewReader(`{"materialsBOM":[{"materialId":"M1"}]}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || len(resp.Stored) != 1 || resp.Stored[0] != "materialsBOM" {
		t.Errorf("response = %+v", resp)
	}
	if _, ok := svc.uploaded["materialsBOM"]; !ok {
		t.Error("payload not passed to service")
	}
}

func TestUsersHandler(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		err          error
		expectedCode int
	}{
		{"list", http.MethodGet, "/users", "", nil, http.StatusOK},
		{"create", http.MethodPost, "/users", `{"username":"ann","password":"pw"}`, nil, http.StatusCreated},
		{"create bad json", http.MethodPost, "/users", `{`, nil, http.StatusBadRequest},
		{"create duplicate", http.MethodPost, "/users", `{"username":"ann","password":"pw"}`, service.ErrUserExists, http.StatusConflict},
		{"create invalid", http.MethodPost, "/users", `{"username":""}`, fmt.Errorf("%w: username is required", service.ErrInvalidUser), http.StatusBadRequest},
		{"update", http.MethodPut, "/users/u-1", `{"username":"ann"}`, nil, http.StatusOK},
		{"update missing", http.MethodPut, "/users/u-1", `{"username":"ann"}`, service.ErrUserNotFound, http.StatusNotFound},
		{"delete", http.MethodDelete, "/users/u-1", "", nil, http.StatusOK},
		{"delete missing", http.MethodDelete, "/users/u-1", "", service.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUserService{err: tt.err}
			h := &UsersHandler{UserService: svc}
			r := chi.NewRouter()
			r.Get("/users", h.List)
			r.Post("/users", h.Create)
			r.Put("/users/{id}", h.Update)
			r.Delete("/users/{id}", h.Delete)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tt.expectedCode, rec.Body.String())
			}
			if tt.method == http.MethodPut && svc.updatedID != "u-1" {
				t.Errorf("updated id = %q; want u-1", svc.updatedID)
			}
		})
	}
}

func TestUsersHandler_ListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	(&UsersHandler{UserService: &fakeUserService{}}).List(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q; want []", rec.Body.String())
	}
}
