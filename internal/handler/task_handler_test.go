package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/auth"
	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/middleware"
	"taskpilot/internal/model"
	"taskpilot/internal/service"
	"taskpilot/internal/validation"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, userID uint, in service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, userID uint, in service.ListTasksInput) ([]model.Task, *service.Pagination, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]model.Task), args.Get(1).(*service.Pagination), args.Error(2)
}

func (m *MockTaskService) Get(ctx context.Context, id, userID uint) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id, userID uint, in service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, id, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type taskFixture struct {
	e      *echo.Echo
	svc    *MockTaskService
	tokens *auth.JWTService
}

func newTaskFixture() *taskFixture {
	e := echo.New()
	e.Validator = validation.NewEchoValidator()

	tokens := auth.NewJWTService("test-secret", time.Hour)
	svc := new(MockTaskService)
	h := NewTaskHandler(svc)
	authMW := middleware.NewAuth(tokens)

	tasks := e.Group("/tasks", authMW.Require())
	tasks.POST("", h.Create)
	tasks.GET("", h.List)
	tasks.GET("/:id", h.Get)
	tasks.PUT("/:id", h.Update)
	tasks.DELETE("/:id", h.Delete)

	return &taskFixture{e: e, svc: svc, tokens: tokens}
}

func (f *taskFixture) request(t *testing.T, method, path, body string, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		token, err := f.tokens.Issue(userID, fmt.Sprintf("user%d@x.com", userID), "")
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestCreateTaskRequiresAuth(t *testing.T) {
	f := newTaskFixture()

	rec := f.request(t, http.MethodPost, "/tasks", `{"title":"T"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", envelope(t, rec)["message"])
	f.svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTaskWithDefaults(t *testing.T) {
	f := newTaskFixture()

	stored := &model.Task{
		ID:       1,
		UserID:   1,
		Title:    "T",
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
	}
	f.svc.On("Create", mock.Anything, uint(1), service.CreateTaskInput{Title: "T"}).Return(stored, nil)

	rec := f.request(t, http.MethodPost, "/tasks", `{"title":"T"}`, 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := envelope(t, rec)
	assert.Equal(t, "Task created successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "medium", data["priority"])
}

func TestCreateTaskValidationMessages(t *testing.T) {
	f := newTaskFixture()

	cases := []struct {
		body string
		want string
	}{
		{`{}`, "Title is required"},
		{`{"title":"T","status":"done"}`, "Status must be pending, in_progress, or completed"},
		{`{"title":"T","priority":"urgent"}`, "Priority must be low, medium, or high"},
		{`{"title":"T","due_date":"soonish"}`, "Due date must be a valid date"},
		{`{"title":"T","due_date":"2001-01-01"}`, "Due date cannot be in the past"},
	}
	for _, tc := range cases {
		rec := f.request(t, http.MethodPost, "/tasks", tc.body, 1)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		assert.Equal(t, tc.want, envelope(t, rec)["message"], tc.body)
	}
	f.svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPassesFiltersAndPagination(t *testing.T) {
	f := newTaskFixture()

	listed := []model.Task{{ID: 2, UserID: 1, Title: "B", Status: model.StatusCompleted}}
	pagination := &service.Pagination{Page: 2, Limit: 1, Total: 3, Pages: 3}
	f.svc.On("List", mock.Anything, uint(1), service.ListTasksInput{
		Status: "completed",
		Page:   2,
		Limit:  1,
	}).Return(listed, pagination, nil)

	rec := f.request(t, http.MethodGet, "/tasks?status=completed&page=2&limit=1", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope(t, rec)["data"].(map[string]interface{})
	assert.Len(t, data["tasks"].([]interface{}), 1)
	pag := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pag["pages"])
	assert.Equal(t, float64(3), pag["total"])
}

func TestGetTaskNotFound(t *testing.T) {
	f := newTaskFixture()

	f.svc.On("Get", mock.Anything, uint(9), uint(1)).Return(nil, apperrors.ErrTaskNotFound)

	rec := f.request(t, http.MethodGet, "/tasks/9", "", 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", envelope(t, rec)["message"])
}

func TestGetTaskNonNumericID(t *testing.T) {
	f := newTaskFixture()

	rec := f.request(t, http.MethodGet, "/tasks/abc", "", 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", envelope(t, rec)["message"])
	f.svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateForeignTaskIndistinguishableFromMissing(t *testing.T) {
	f := newTaskFixture()

	// Task 5 belongs to user 2; caller is user 1.
	f.svc.On("Update", mock.Anything, uint(5), uint(1), mock.Anything).
		Return(nil, apperrors.ErrTaskNotFound)

	rec := f.request(t, http.MethodPut, "/tasks/5", `{"title":"hijack"}`, 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", envelope(t, rec)["message"])
}

func TestUpdateWithNoFields(t *testing.T) {
	f := newTaskFixture()

	f.svc.On("Update", mock.Anything, uint(1), uint(1), service.UpdateTaskInput{}).
		Return(nil, apperrors.ErrNoFieldsToUpdate)

	rec := f.request(t, http.MethodPut, "/tasks/1", `{}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No fields to update", envelope(t, rec)["message"])
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	f := newTaskFixture()

	rec := f.request(t, http.MethodPut, "/tasks/1", `{"title":""}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title cannot be empty", envelope(t, rec)["message"])
	f.svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRejectsPastDueDate(t *testing.T) {
	f := newTaskFixture()

	rec := f.request(t, http.MethodPut, "/tasks/1", `{"due_date":"2001-01-01"}`, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Due date cannot be in the past", envelope(t, rec)["message"])
	f.svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppliesProvidedFields(t *testing.T) {
	f := newTaskFixture()

	status := model.StatusCompleted
	updated := &model.Task{ID: 1, UserID: 1, Title: "T", Status: status}
	f.svc.On("Update", mock.Anything, uint(1), uint(1), mock.MatchedBy(func(in service.UpdateTaskInput) bool {
		return in.Status != nil && *in.Status == status && in.Title == nil
	})).Return(updated, nil)

	rec := f.request(t, http.MethodPut, "/tasks/1", `{"status":"completed"}`, 1)
	require.Equal(t, http.StatusOK, rec.Code)

	body := envelope(t, rec)
	assert.Equal(t, "Task updated successfully", body["message"])
	assert.Equal(t, "completed", body["data"].(map[string]interface{})["status"])
}

func TestDeleteTask(t *testing.T) {
	f := newTaskFixture()

	f.svc.On("Delete", mock.Anything, uint(1), uint(1)).Return(nil)
	f.svc.On("Delete", mock.Anything, uint(2), uint(1)).Return(apperrors.ErrTaskNotFound)

	rec := f.request(t, http.MethodDelete, "/tasks/1", "", 1)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Task deleted successfully", body["message"])
	assert.Nil(t, body["data"])

	rec = f.request(t, http.MethodDelete, "/tasks/2", "", 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
