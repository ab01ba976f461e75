// Package habitica implements the service.Service interface over the v4 task HTTP API.
package habitica

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"htask/internal/config"
	"htask/internal/service"
)

const (
	// APIPrefix is prepended to every request path.
	APIPrefix = "/api/v4"

	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	// UserAgent is sent with every request.
	UserAgent = "htask/0.1"
)

// Options configure a Client.
type Options struct {
	// BaseURL is the scheme and host of the API, without the /api/v4 prefix.
	BaseURL string

	// ClientID is sent in the x-client header.
	ClientID string

	Credentials config.Credentials

	// Token, if set, authenticates with a bearer token in addition to the
	// api key headers.
	Token *oauth2.Token

	// HTTPClient replaces the default transport (for testing).
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client implements service.Service against the task HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// New creates a client from stored configuration.
// Requires credentials in credentials.yaml, the environment, or token.json.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	token, err := loadToken(cfg)
	if err != nil {
		return nil, err
	}
	if token == nil && !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: no credentials configured (run: htask login)", service.ErrUnauthorized)
	}
	return NewWithOptions(ctx, Options{
		BaseURL:     cfg.BaseURL,
		ClientID:    cfg.ClientID,
		Credentials: cfg.Credentials,
		Token:       token,
		Logger:      log,
	})
}

// NewWithOptions creates a client from explicit options.
func NewWithOptions(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		var err error
		hc, _, err = htransport.NewClient(ctx,
			option.WithoutAuthentication(),
			option.WithUserAgent(UserAgent),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create http transport: %w", err)
		}
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Token != nil {
		base = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(opts.Token, oauth2.StaticTokenSource(opts.Token)),
			Base:   base,
		}
	}

	return &Client{
		http: &http.Client{
			Transport: &authTransport{
				base:     base,
				userID:   opts.Credentials.UserID,
				apiToken: opts.Credentials.APIToken,
				clientID: opts.ClientID,
			},
			CheckRedirect: hc.CheckRedirect,
			Jar:           hc.Jar,
		},
		baseURL: opts.BaseURL,
		log:     log,
	}, nil
}

func loadToken(cfg *config.Config) (*oauth2.Token, error) {
	if !cfg.HasToken() {
		return nil, nil
	}
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token.json has no access token", service.ErrUnauthorized)
	}
	return &token, nil
}

// authTransport adds the api key and client headers to each request.
type authTransport struct {
	base     http.RoundTripper
	userID   string
	apiToken string
	clientID string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.userID != "" {
		req.Header.Set("x-api-user", t.userID)
	}
	if t.apiToken != "" {
		req.Header.Set("x-api-key", t.apiToken)
	}
	if t.clientID != "" {
		req.Header.Set("x-client", t.clientID)
	}
	return t.base.RoundTrip(req)
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// do performs one API call. body, if non-nil, is sent as JSON; the envelope's
// data member is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	u := c.baseURL + APIPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return wrapError(err)
	}
	defer res.Body.Close()
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := googleapi.CheckResponse(res); err != nil {
		return wrapError(err)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func taskPath(taskID string, rest ...string) string {
	p := "/tasks/" + url.PathEscape(taskID)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// User returns the signed-in user's id and task order.
func (c *Client) User(ctx context.Context) (service.User, error) {
	var user service.User
	q := url.Values{"userFields": {"tasksOrder"}}
	if err := c.do(ctx, http.MethodGet, "/user", q, nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// UserTasks returns all open tasks of the signed-in user.
func (c *Client) UserTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/user", nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompletedTodos returns the user's completed todos.
func (c *Client) CompletedTodos(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	q := url.Values{"type": {"completedTodos"}}
	if err := c.do(ctx, http.MethodGet, "/tasks/user", q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ClearCompletedTodos deletes completed todos on the server.
func (c *Client) ClearCompletedTodos(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/tasks/clearCompletedTodos", nil, nil, nil)
}

// CreateUserTasks creates tasks. The server answers with a single task for a
// one-element request and an array otherwise; both are returned as a slice.
func (c *Client) CreateUserTasks(ctx context.Context, tasks []service.Task) ([]service.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/tasks/user", nil, tasks, &raw); err != nil {
		return nil, err
	}
	return decodeOneOrMany(raw)
}

func decodeOneOrMany(raw json.RawMessage) ([]service.Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var tasks []service.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		return tasks, nil
	}
	var task service.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return []service.Task{task}, nil
}

// taskUpdate is the body of a task update. The editable fields are always
// sent so that a cleared value reaches the server. History is never sent.
type taskUpdate struct {
	ID                string                  `json:"_id"`
	Type              service.TaskType        `json:"type"`
	Text              string                  `json:"text"`
	Notes             string                  `json:"notes"`
	Priority          float64                 `json:"priority"`
	Tags              []string                `json:"tags"`
	Completed         bool                    `json:"completed"`
	Checklist         []service.ChecklistItem `json:"checklist"`
	CollapseChecklist bool                    `json:"collapseChecklist"`
	Attribute         string                  `json:"attribute,omitempty"`

	Up        *bool      `json:"up,omitempty"`
	Down      *bool      `json:"down,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	EveryX    int        `json:"everyX,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

func newTaskUpdate(task service.Task) taskUpdate {
	u := taskUpdate{
		ID:                task.ID,
		Type:              task.Type,
		Text:              task.Text,
		Notes:             task.Notes,
		Priority:          task.Priority,
		Tags:              task.Tags,
		Completed:         task.Completed,
		Checklist:         task.Checklist,
		CollapseChecklist: task.CollapseChecklist,
		Attribute:         task.Attribute,
		Up:                task.Up,
		Down:              task.Down,
		Frequency:         task.Frequency,
		EveryX:            task.EveryX,
		StartDate:         task.StartDate,
		Date:              task.Date,
	}
	if u.Tags == nil {
		u.Tags = []string{}
	}
	if u.Checklist == nil {
		u.Checklist = []service.ChecklistItem{}
	}
	return u
}

// UpdateTask sends the editable fields of task, cleared ones included.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	var updated service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(task.ID), nil, newTaskUpdate(task), &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// PatchTask sends a partial update for a task.
func (c *Client) PatchTask(ctx context.Context, taskID string, fields map[string]any) (service.Task, error) {
	var updated service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(taskID), nil, fields, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, taskPath(taskID), nil, nil, nil)
}

// ScoreTask scores a task up or down.
func (c *Client) ScoreTask(ctx context.Context, taskID string, dir service.Direction) (service.ScoreResult, error) {
	var res service.ScoreResult
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, "score", string(dir)), nil, nil, &res); err != nil {
		return service.ScoreResult{}, err
	}
	return res, nil
}

// BulkScore scores several tasks in one request.
func (c *Client) BulkScore(ctx context.Context, params []service.ScoreParam) (service.ScoreResult, error) {
	var res service.ScoreResult
	if err := c.do(ctx, http.MethodPost, "/tasks/bulk-score", nil, params, &res); err != nil {
		return service.ScoreResult{}, err
	}
	return res, nil
}

// ScoreChecklistItem toggles a checklist item.
func (c *Client) ScoreChecklistItem(ctx context.Context, taskID, itemID string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, "checklist", itemID, "score"), nil, nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// MoveTask moves a task and returns the new order of its type.
func (c *Client) MoveTask(ctx context.Context, taskID string, position int) ([]string, error) {
	var order []string
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, "move", "to", strconv.Itoa(position)), nil, nil, &order); err != nil {
		return nil, err
	}
	return order, nil
}

// MoveGroupTask moves a group task and returns the new order.
func (c *Client) MoveGroupTask(ctx context.Context, taskID string, position int) ([]string, error) {
	var order []string
	p := "/group-tasks/" + url.PathEscape(taskID) + "/move/to/" + strconv.Itoa(position)
	if err := c.do(ctx, http.MethodPost, p, nil, nil, &order); err != nil {
		return nil, err
	}
	return order, nil
}

// UnlinkOneTask detaches a challenge task from its challenge.
func (c *Client) UnlinkOneTask(ctx context.Context, taskID string, keep service.KeepMode) error {
	q := url.Values{"keep": {string(keep)}}
	return c.do(ctx, http.MethodPost, "/tasks/unlink-one/"+url.PathEscape(taskID), q, nil, nil)
}

// UnlinkAllTasks detaches every task of a challenge.
func (c *Client) UnlinkAllTasks(ctx context.Context, challengeID string, keep service.KeepMode) error {
	q := url.Values{"keep": {string(keep)}}
	return c.do(ctx, http.MethodPost, "/tasks/unlink-all/"+url.PathEscape(challengeID), q, nil, nil)
}

func (c *Client) listTasks(ctx context.Context, path string, q url.Values) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, path, q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) createTasks(ctx context.Context, path string, tasks []service.Task) ([]service.Task, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, nil, tasks, &raw); err != nil {
		return nil, err
	}
	return decodeOneOrMany(raw)
}

// ChallengeTasks lists the tasks of a challenge.
func (c *Client) ChallengeTasks(ctx context.Context, challengeID string) ([]service.Task, error) {
	return c.listTasks(ctx, "/tasks/challenge/"+url.PathEscape(challengeID), nil)
}

// CreateChallengeTasks adds tasks to a challenge.
func (c *Client) CreateChallengeTasks(ctx context.Context, challengeID string, tasks []service.Task) ([]service.Task, error) {
	return c.createTasks(ctx, "/tasks/challenge/"+url.PathEscape(challengeID), tasks)
}

// GroupTasks lists the open tasks of a group.
func (c *Client) GroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	return c.listTasks(ctx, "/tasks/group/"+url.PathEscape(groupID), nil)
}

// CompletedGroupTasks lists the completed todos of a group.
func (c *Client) CompletedGroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	q := url.Values{"type": {"completedTodos"}}
	return c.listTasks(ctx, "/tasks/group/"+url.PathEscape(groupID), q)
}

// CreateGroupTasks adds tasks to a group.
func (c *Client) CreateGroupTasks(ctx context.Context, groupID string, tasks []service.Task) ([]service.Task, error) {
	return c.createTasks(ctx, "/tasks/group/"+url.PathEscape(groupID), tasks)
}

func (c *Client) memberAction(ctx context.Context, taskID, action, userID string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, taskPath(taskID, action, userID), nil, nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// AssignTask assigns a group task to a member.
func (c *Client) AssignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	return c.memberAction(ctx, taskID, "assign", userID)
}

// UnassignTask removes a member from a group task.
func (c *Client) UnassignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	return c.memberAction(ctx, taskID, "unassign", userID)
}

// NeedsWork sends an approval request back to the member.
func (c *Client) NeedsWork(ctx context.Context, taskID, userID string) (service.Task, error) {
	return c.memberAction(ctx, taskID, "needs-work", userID)
}

// Approve approves a member's completion of a group task.
func (c *Client) Approve(ctx context.Context, taskID, userID string) (service.Task, error) {
	return c.memberAction(ctx, taskID, "approve", userID)
}

// GroupApprovals lists pending approval requests of a group.
func (c *Client) GroupApprovals(ctx context.Context, groupID string) ([]service.Task, error) {
	return c.listTasks(ctx, "/approvals/group/"+url.PathEscape(groupID), nil)
}

// apiError is the error body returned by the server.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	msg := http.StatusText(gerr.Code)
	var body apiError
	if json.Unmarshal([]byte(gerr.Body), &body) == nil && body.Message != "" {
		msg = body.Message
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s (run: htask login)", service.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", service.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", service.ErrInvalid, msg)
	}
	return fmt.Errorf("server error %d: %s", gerr.Code, msg)
}

var _ service.Service = (*Client)(nil)
