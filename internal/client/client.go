package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// Client is a thin HTTP client for the taskboard REST API. It handles
// Bearer token authentication and unwraps the response envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:3000). An empty token sends no Authorization
// header, which suits a server in fixed auth mode.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FieldError is a per-field validation problem reported by the API.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Details))
	for field, fe := range e.Details {
		parts = append(parts, field+": "+fe.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, strings.Join(parts, "; "))
}

// Pagination mirrors the list metadata.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of tasks.
type Page struct {
	Tasks      []model.Task
	Pagination Pagination
}

// ListParams selects the tasks to list. Empty fields use server defaults.
type ListParams struct {
	Statuses   []model.Status
	Priorities []model.Priority
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	for _, s := range p.Statuses {
		v.Add("status", string(s))
	}
	for _, pr := range p.Priorities {
		v.Add("priority", string(pr))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", p.SortOrder)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return v
}

// CreateRequest is the body of a create call. DueDate is YYYY-MM-DD.
type CreateRequest struct {
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	DueDate     string         `json:"due_date"`
	Priority    model.Priority `json:"priority,omitempty"`
}

// UpdateRequest is a partial update; nil fields are not sent. Set
// ClearDescription to send an explicit null description.
type UpdateRequest struct {
	Title            *string
	Description      *string
	ClearDescription bool
	DueDate          *string
	Priority         *model.Priority
}

// MarshalJSON emits only the fields being changed.
func (r UpdateRequest) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if r.Title != nil {
		m["title"] = *r.Title
	}
	if r.ClearDescription {
		m["description"] = nil
	} else if r.Description != nil {
		m["description"] = *r.Description
	}
	if r.DueDate != nil {
		m["due_date"] = *r.DueDate
	}
	if r.Priority != nil {
		m["priority"] = *r.Priority
	}
	return json.Marshal(m)
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    *struct {
		Code    string                `json:"code"`
		Message string                `json:"message"`
		Details map[string]FieldError `json:"details"`
	} `json:"error"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET /health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d on GET /health", resp.StatusCode)
	}
	return nil
}

// List fetches one page of tasks.
func (c *Client) List(ctx context.Context, params ListParams) (*Page, error) {
	path := "/api/v1/tasks"
	if q := params.values().Encode(); q != "" {
		path += "?" + q
	}

	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if err := json.Unmarshal(env.Data, &page.Tasks); err != nil {
		return nil, fmt.Errorf("unmarshaling tasks: %w", err)
	}

	var meta struct {
		Pagination Pagination `json:"pagination"`
	}
	if len(env.Metadata) > 0 {
		if err := json.Unmarshal(env.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("unmarshaling pagination: %w", err)
		}
	}
	page.Pagination = meta.Pagination
	return page, nil
}

// Get fetches a single task.
func (c *Client) Get(ctx context.Context, id string) (*model.Task, error) {
	return c.doTask(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil)
}

// Create creates a task.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*model.Task, error) {
	return c.doTask(ctx, http.MethodPost, "/api/v1/tasks", req)
}

// Update applies a partial update.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*model.Task, error) {
	return c.doTask(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(id), req)
}

// ChangeStatus moves a task to status.
func (c *Client) ChangeStatus(ctx context.Context, id string, status model.Status) (*model.Task, error) {
	body := map[string]model.Status{"status": status}
	return c.doTask(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id)+"/status", body)
}

// Delete soft-deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) doTask(ctx context.Context, method, path string, body any) (*model.Task, error) {
	env, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		return nil, fmt.Errorf("unmarshaling task from %s %s: %w", method, path, err)
	}
	return &task, nil
}

// do builds the request, handles auth, and decodes the envelope. Non-2xx
// responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshaling response from %s %s: %w", method, path, decodeErr)
	}
	return &env, nil
}
