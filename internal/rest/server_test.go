package rest_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/rest"
	"github.com/nhle/taskboard/internal/rest/response"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/tasks"
)

var testNow = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

type fieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    *struct {
		Code    string                `json:"code"`
		Message string                `json:"message"`
		Details map[string]fieldError `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T, authn auth.Authenticator) *fiber.App {
	t.Helper()

	log, _ := test.NewNullLogger()
	svc := tasks.NewService(store.NewMemoryStore(),
		tasks.WithClock(func() time.Time { return testNow }),
		tasks.WithLogger(log),
	)
	if authn == nil {
		authn = auth.NewFixed(model.DefaultUserID, "user@example.com")
	}
	return rest.New(svc, authn, log)
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, envelope) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

func createTask(t *testing.T, app *fiber.App, body string, headers ...string) model.Task {
	t.Helper()

	status, env := do(t, app, http.MethodPost, "/api/v1/tasks", body, headers...)
	require.Equal(t, http.StatusCreated, status)

	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	return task
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateTask(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/tasks",
		`{"title":"Write report","description":"quarterly","due_date":"2030-06-10"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.DefaultUserID, task.UserID)
	assert.Equal(t, "Write report", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "quarterly", *task.Description)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.True(t, task.DueDate.Equal(time.Date(2030, time.June, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, task.CreatedAt.Equal(testNow))
	assert.Nil(t, task.DeletedAt)
}

func TestCreateTaskAcceptsCamelCaseAndToday(t *testing.T) {
	app := newTestApp(t, nil)

	task := createTask(t, app, `{"title":"Due today","dueDate":"2030-06-01","priority":"High"}`)
	assert.Equal(t, model.PriorityHigh, task.Priority)
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name  string
		body  string
		field string
		code  string
	}{
		{"missing title", `{"due_date":"2030-06-10"}`, "title", response.MissedValue},
		{"short title", `{"title":"ab","due_date":"2030-06-10"}`, "title", response.TooShort},
		{"long title", `{"title":"` + strings.Repeat("x", 151) + `","due_date":"2030-06-10"}`, "title", response.TooLong},
		{"missing due date", `{"title":"Valid"}`, "due_date", response.MissedValue},
		{"past due date", `{"title":"Valid","due_date":"2030-05-31"}`, "due_date", response.InPast},
		{"bad due date", `{"title":"Valid","due_date":"next week"}`, "due_date", response.InvalidValue},
		{"bad priority", `{"title":"Valid","due_date":"2030-06-10","priority":"urgent"}`, "priority", response.InvalidValue},
		{"numeric description", `{"title":"Valid","due_date":"2030-06-10","description":5}`, "description", response.InvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, http.MethodPost, "/api/v1/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, response.CodeValidation, env.Error.Code)
			assert.Equal(t, tt.code, env.Error.Details[tt.field].Code)
		})
	}
}

func TestCreateTaskTitleCountsCharacters(t *testing.T) {
	app := newTestApp(t, nil)

	createTask(t, app, `{"title":"日本語","due_date":"2030-06-10"}`)
	title := strings.Repeat("é", 150)
	createTask(t, app, `{"title":"`+title+`","due_date":"2030-06-10"}`)
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/tasks", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeInvalidRequest, env.Error.Code)
}

func TestGetTaskNotFound(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeNotFound, env.Error.Code)
}

func TestGetTask(t *testing.T) {
	app := newTestApp(t, nil)
	created := createTask(t, app, `{"title":"Fetch me","due_date":"2030-06-10"}`)

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)

	var got model.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestListTasks(t *testing.T) {
	app := newTestApp(t, nil)

	for i := 0; i < 12; i++ {
		createTask(t, app, `{"title":"Task number","due_date":"2030-06-10"}`)
	}

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks?page=2&pageSize=5", "")
	require.Equal(t, http.StatusOK, status)

	var list []model.Task
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 5)

	var meta response.ListMetadata
	require.NoError(t, json.Unmarshal(env.Metadata, &meta))
	assert.Equal(t, response.Pagination{Total: 12, Page: 2, PageSize: 5, TotalPages: 3}, meta.Pagination)
}

func TestListTasksEmpty(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	var meta response.ListMetadata
	require.NoError(t, json.Unmarshal(env.Metadata, &meta))
	assert.Equal(t, response.Pagination{Total: 0, Page: 1, PageSize: 10, TotalPages: 0}, meta.Pagination)
}

func TestListTasksStatusFilter(t *testing.T) {
	app := newTestApp(t, nil)

	a := createTask(t, app, `{"title":"Pending one","due_date":"2030-06-10"}`)
	b := createTask(t, app, `{"title":"Started one","due_date":"2030-06-11"}`)
	c := createTask(t, app, `{"title":"Finished one","due_date":"2030-06-12"}`)

	status, _ := do(t, app, http.MethodPatch, "/api/v1/tasks/"+b.ID+"/status", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, http.MethodPatch, "/api/v1/tasks/"+c.ID+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, status)

	listIDs := func(path string) []string {
		status, env := do(t, app, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, status)
		var list []model.Task
		require.NoError(t, json.Unmarshal(env.Data, &list))
		var ids []string
		for _, task := range list {
			ids = append(ids, task.ID)
		}
		return ids
	}

	assert.Equal(t, []string{a.ID, b.ID}, listIDs("/api/v1/tasks"))
	assert.Equal(t, []string{c.ID}, listIDs("/api/v1/tasks?status=completed"))
	assert.Equal(t, []string{a.ID, c.ID}, listIDs("/api/v1/tasks?status=pending&status=completed"))
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, listIDs("/api/v1/tasks?status=pending,in_progress,completed&sortOrder=desc"))
}

func TestListTasksSortByPriority(t *testing.T) {
	app := newTestApp(t, nil)

	createTask(t, app, `{"title":"Medium","due_date":"2030-06-10","priority":"medium"}`)
	createTask(t, app, `{"title":"High","due_date":"2030-06-10","priority":"high"}`)
	createTask(t, app, `{"title":"Low","due_date":"2030-06-10","priority":"low"}`)

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks?sort_by=priority&sort_order=desc&priority=high,low", "")
	require.Equal(t, http.StatusOK, status)

	var list []model.Task
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "High", list[0].Title)
	assert.Equal(t, "Low", list[1].Title)
}

func TestListTasksInvalidQuery(t *testing.T) {
	app := newTestApp(t, nil)

	for _, q := range []string{"status=archived", "priority=urgent", "sortBy=title", "sortOrder=up", "page=0", "pageSize=abc"} {
		t.Run(q, func(t *testing.T) {
			status, env := do(t, app, http.MethodGet, "/api/v1/tasks?"+q, "")
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, response.CodeValidation, env.Error.Code)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	app := newTestApp(t, nil)
	created := createTask(t, app, `{"title":"Original","description":"keep","due_date":"2030-06-10","priority":"low"}`)

	status, env := do(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"priority":"high"}`)
	require.Equal(t, http.StatusOK, status)

	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "Original", task.Title)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	require.NotNil(t, task.Description)
	assert.Equal(t, "keep", *task.Description)

	status, env = do(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"description":null,"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "Renamed", task.Title)
	assert.Nil(t, task.Description)
}

func TestUpdateTaskValidation(t *testing.T) {
	app := newTestApp(t, nil)
	created := createTask(t, app, `{"title":"Original","due_date":"2030-06-10"}`)

	status, env := do(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":null,"due_date":"2020-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.InvalidValue, env.Error.Details["title"].Code)
	assert.Equal(t, response.InPast, env.Error.Details["due_date"].Code)

	status, _ = do(t, app, http.MethodPut, "/api/v1/tasks/unknown", `{"title":"Whatever"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTask(t *testing.T) {
	app := newTestApp(t, nil)
	created := createTask(t, app, `{"title":"Remove me","due_date":"2030-06-10"}`)

	status, env := do(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `null`, string(env.Data))
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, string(env.Metadata))

	status, _ = do(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestChangeStatus(t *testing.T) {
	app := newTestApp(t, nil)
	created := createTask(t, app, `{"title":"Workflow","due_date":"2030-06-10"}`)
	path := "/api/v1/tasks/" + created.ID + "/status"

	status, env := do(t, app, http.MethodPatch, path, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, status)

	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, model.StatusCompleted, task.Status)

	status, env = do(t, app, http.MethodPatch, path, `{"status":"in_progress"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(tasks.KindInvalidTransition), env.Error.Code)

	status, env = do(t, app, http.MethodPatch, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.MissedValue, env.Error.Details["status"].Code)
}

func TestJWTAuthentication(t *testing.T) {
	jwtm := auth.NewJWTManager("test-secret", time.Hour)
	app := newTestApp(t, jwtm)

	status, env := do(t, app, http.MethodGet, "/api/v1/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeUnauthorized, env.Error.Code)

	status, _ = do(t, app, http.MethodGet, "/api/v1/tasks", "", "Authorization", "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, status)

	aliceToken, err := jwtm.IssueToken("alice", "alice@example.com")
	require.NoError(t, err)
	bobToken, err := jwtm.IssueToken("bob", "")
	require.NoError(t, err)

	task := createTask(t, app, `{"title":"Alice task","due_date":"2030-06-10"}`,
		"Authorization", "Bearer "+aliceToken)
	assert.Equal(t, "alice", task.UserID)

	status, _ = do(t, app, http.MethodGet, "/api/v1/tasks/"+task.ID, "", "Authorization", "Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/tasks/"+task.ID, "", "Authorization", "Bearer "+aliceToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/projects", "")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeNotFound, env.Error.Code)
}
