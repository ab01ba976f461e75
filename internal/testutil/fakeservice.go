// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"htask/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Task ids assigned by the client are kept; server state is a flat task list.
type FakeService struct {
	mu         sync.Mutex
	user       service.User
	tasks      []service.Task
	completed  []service.Task
	groupTasks map[string][]service.Task
	calls      []string

	// UserTasksGate, if set, blocks UserTasks until it is closed.
	UserTasksGate chan struct{}

	// CompletedTodosGate, if set, blocks CompletedTodos until it is closed.
	CompletedTodosGate chan struct{}

	// ScoreDelta is returned as the delta of every score request.
	ScoreDelta float64

	// Error injection for testing
	UserErr                error
	UserTasksErr           error
	CompletedTodosErr      error
	ClearCompletedTodosErr error
	CreateErr              error
	UpdateErr              error
	DeleteErr              error
	ScoreErr               error
	MoveErr                error
	GroupErr               error
}

// NewFakeService creates a new FakeService for the given user id.
func NewFakeService(userID string) *FakeService {
	return &FakeService{
		user:       service.User{ID: userID},
		groupTasks: make(map[string][]service.Task),
	}
}

// AddTask adds a task on the server without touching the task order.
func (f *FakeService) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.Completed && task.Type == service.Todo {
		f.completed = append(f.completed, task)
		return
	}
	f.tasks = append(f.tasks, task)
}

// SetOrder replaces the user's order for one task type.
func (f *FakeService) SetOrder(t service.TaskType, ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user.TasksOrder.Set(t, ids)
}

// AddGroupTask adds a task to a group.
func (f *FakeService) AddGroupTask(groupID string, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupTasks[groupID] = append(f.groupTasks[groupID], task)
}

// ServerTask returns the server copy of a task.
func (f *FakeService) ServerTask(id string) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(id); i >= 0 {
		return f.tasks[i], true
	}
	return service.Task{}, false
}

// Calls returns the names of the service methods called so far.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *FakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *FakeService) indexLocked(id string) int {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: task %s", service.ErrNotFound, id)
}

// User implements service.Service.
func (f *FakeService) User(ctx context.Context) (service.User, error) {
	f.record("User")
	if f.UserErr != nil {
		return service.User{}, f.UserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return service.User{ID: f.user.ID, TasksOrder: f.user.TasksOrder.Clone()}, nil
}

// UserTasks implements service.Service.
func (f *FakeService) UserTasks(ctx context.Context) ([]service.Task, error) {
	f.record("UserTasks")
	if f.UserTasksGate != nil {
		select {
		case <-f.UserTasksGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.UserTasksErr != nil {
		return nil, f.UserTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...), nil
}

// CompletedTodos implements service.Service.
func (f *FakeService) CompletedTodos(ctx context.Context) ([]service.Task, error) {
	f.record("CompletedTodos")
	if f.CompletedTodosGate != nil {
		select {
		case <-f.CompletedTodosGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.CompletedTodosErr != nil {
		return nil, f.CompletedTodosErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.completed...), nil
}

// ClearCompletedTodos implements service.Service.
func (f *FakeService) ClearCompletedTodos(ctx context.Context) error {
	f.record("ClearCompletedTodos")
	if f.ClearCompletedTodosErr != nil {
		return f.ClearCompletedTodosErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = nil
	return nil
}

// CreateUserTasks implements service.Service.
func (f *FakeService) CreateUserTasks(ctx context.Context, tasks []service.Task) ([]service.Task, error) {
	f.record("CreateUserTasks")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = fmt.Sprintf("srv-%d", len(f.tasks)+1)
		}
		for i := range t.Checklist {
			if t.Checklist[i].ID == "" {
				t.Checklist[i].ID = fmt.Sprintf("%s-item-%d", t.ID, i+1)
			}
		}
		f.tasks = append(f.tasks, t)
		f.user.TasksOrder.Set(t.Type, append([]string{t.ID}, f.user.TasksOrder.For(t.Type)...))
		created = append(created, t)
	}
	return created, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(task.ID)
	if i < 0 {
		return service.Task{}, notFound(task.ID)
	}
	task.History = f.tasks[i].History
	f.tasks[i] = task
	return task, nil
}

// PatchTask implements service.Service. Only collapseChecklist is understood.
func (f *FakeService) PatchTask(ctx context.Context, taskID string, fields map[string]any) (service.Task, error) {
	f.record("PatchTask")
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.Task{}, notFound(taskID)
	}
	if v, ok := fields["collapseChecklist"].(bool); ok {
		f.tasks[i].CollapseChecklist = v
	}
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.record("DeleteTask")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return notFound(taskID)
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// ScoreTask implements service.Service.
func (f *FakeService) ScoreTask(ctx context.Context, taskID string, dir service.Direction) (service.ScoreResult, error) {
	f.record("ScoreTask")
	if f.ScoreErr != nil {
		return service.ScoreResult{}, f.ScoreErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.ScoreResult{}, notFound(taskID)
	}
	delta := f.ScoreDelta
	if dir == service.Down {
		delta = -delta
	}
	f.tasks[i].Value += delta
	return service.ScoreResult{Delta: delta}, nil
}

// BulkScore implements service.Service.
func (f *FakeService) BulkScore(ctx context.Context, params []service.ScoreParam) (service.ScoreResult, error) {
	f.record("BulkScore")
	if f.ScoreErr != nil {
		return service.ScoreResult{}, f.ScoreErr
	}
	return service.ScoreResult{Delta: f.ScoreDelta * float64(len(params))}, nil
}

// ScoreChecklistItem implements service.Service.
func (f *FakeService) ScoreChecklistItem(ctx context.Context, taskID, itemID string) (service.Task, error) {
	f.record("ScoreChecklistItem")
	if f.ScoreErr != nil {
		return service.Task{}, f.ScoreErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.Task{}, notFound(taskID)
	}
	for j := range f.tasks[i].Checklist {
		if f.tasks[i].Checklist[j].ID == itemID {
			f.tasks[i].Checklist[j].Completed = !f.tasks[i].Checklist[j].Completed
			return f.tasks[i], nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: checklist item %s", service.ErrNotFound, itemID)
}

// MoveTask implements service.Service.
func (f *FakeService) MoveTask(ctx context.Context, taskID string, position int) ([]string, error) {
	f.record("MoveTask")
	if f.MoveErr != nil {
		return nil, f.MoveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return nil, notFound(taskID)
	}
	typ := f.tasks[i].Type
	order := moveID(f.user.TasksOrder.For(typ), taskID, position)
	f.user.TasksOrder.Set(typ, order)
	return append([]string(nil), order...), nil
}

// moveID moves id to position; -1 means the bottom.
func moveID(order []string, id string, position int) []string {
	out := make([]string, 0, len(order)+1)
	for _, o := range order {
		if o != id {
			out = append(out, o)
		}
	}
	if position < 0 || position > len(out) {
		position = len(out)
	}
	return slices.Insert(out, position, id)
}

// MoveGroupTask implements service.Service.
func (f *FakeService) MoveGroupTask(ctx context.Context, taskID string, position int) ([]string, error) {
	f.record("MoveGroupTask")
	if f.MoveErr != nil {
		return nil, f.MoveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for gid, tasks := range f.groupTasks {
		ids := make([]string, len(tasks))
		found := false
		for i, t := range tasks {
			ids[i] = t.ID
			found = found || t.ID == taskID
		}
		if found {
			order := moveID(ids, taskID, position)
			byID := make(map[string]service.Task, len(tasks))
			for _, t := range tasks {
				byID[t.ID] = t
			}
			moved := make([]service.Task, len(order))
			for i, id := range order {
				moved[i] = byID[id]
			}
			f.groupTasks[gid] = moved
			return order, nil
		}
	}
	return nil, notFound(taskID)
}

// UnlinkOneTask implements service.Service.
func (f *FakeService) UnlinkOneTask(ctx context.Context, taskID string, keep service.KeepMode) error {
	f.record("UnlinkOneTask:" + string(keep))
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return notFound(taskID)
	}
	if keep == service.Remove {
		f.tasks = slices.Delete(f.tasks, i, i+1)
		return nil
	}
	f.tasks[i].Challenge = nil
	return nil
}

// UnlinkAllTasks implements service.Service.
func (f *FakeService) UnlinkAllTasks(ctx context.Context, challengeID string, keep service.KeepMode) error {
	f.record("UnlinkAllTasks:" + string(keep))
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.Challenge != nil && t.Challenge.ID == challengeID {
			if keep == service.RemoveAll {
				continue
			}
			t.Challenge = nil
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return nil
}

// ChallengeTasks implements service.Service.
func (f *FakeService) ChallengeTasks(ctx context.Context, challengeID string) ([]service.Task, error) {
	f.record("ChallengeTasks")
	return f.group("challenge:" + challengeID)
}

// CreateChallengeTasks implements service.Service.
func (f *FakeService) CreateChallengeTasks(ctx context.Context, challengeID string, tasks []service.Task) ([]service.Task, error) {
	f.record("CreateChallengeTasks")
	return f.addToGroup("challenge:"+challengeID, tasks)
}

// GroupTasks implements service.Service.
func (f *FakeService) GroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	f.record("GroupTasks")
	tasks, err := f.group(groupID)
	if err != nil {
		return nil, err
	}
	open := tasks[:0:0]
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open, nil
}

// CompletedGroupTasks implements service.Service.
func (f *FakeService) CompletedGroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	f.record("CompletedGroupTasks")
	tasks, err := f.group(groupID)
	if err != nil {
		return nil, err
	}
	done := tasks[:0:0]
	for _, t := range tasks {
		if t.Completed {
			done = append(done, t)
		}
	}
	return done, nil
}

// CreateGroupTasks implements service.Service.
func (f *FakeService) CreateGroupTasks(ctx context.Context, groupID string, tasks []service.Task) ([]service.Task, error) {
	f.record("CreateGroupTasks")
	return f.addToGroup(groupID, tasks)
}

func (f *FakeService) group(id string) ([]service.Task, error) {
	if f.GroupErr != nil {
		return nil, f.GroupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.groupTasks[id]...), nil
}

func (f *FakeService) addToGroup(id string, tasks []service.Task) ([]service.Task, error) {
	if f.GroupErr != nil {
		return nil, f.GroupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = fmt.Sprintf("%s-task-%d", id, len(f.groupTasks[id])+1)
		}
		f.groupTasks[id] = append(f.groupTasks[id], t)
		created = append(created, t)
	}
	return created, nil
}

// groupMember applies fn to the group task with taskID.
func (f *FakeService) groupMember(taskID string, fn func(t *service.Task)) (service.Task, error) {
	if f.GroupErr != nil {
		return service.Task{}, f.GroupErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for gid := range f.groupTasks {
		for i := range f.groupTasks[gid] {
			t := &f.groupTasks[gid][i]
			if t.ID == taskID {
				if t.Group == nil {
					t.Group = &service.GroupLink{ID: gid}
				}
				fn(t)
				return *t, nil
			}
		}
	}
	return service.Task{}, notFound(taskID)
}

// AssignTask implements service.Service.
func (f *FakeService) AssignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	f.record("AssignTask")
	return f.groupMember(taskID, func(t *service.Task) {
		if !slices.Contains(t.Group.AssignedUsers, userID) {
			t.Group.AssignedUsers = append(t.Group.AssignedUsers, userID)
		}
	})
}

// UnassignTask implements service.Service.
func (f *FakeService) UnassignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	f.record("UnassignTask")
	return f.groupMember(taskID, func(t *service.Task) {
		t.Group.AssignedUsers = slices.DeleteFunc(t.Group.AssignedUsers, func(u string) bool { return u == userID })
	})
}

// NeedsWork implements service.Service.
func (f *FakeService) NeedsWork(ctx context.Context, taskID, userID string) (service.Task, error) {
	f.record("NeedsWork")
	return f.groupMember(taskID, func(t *service.Task) {
		if t.Group.Approval != nil {
			t.Group.Approval.Requested = false
		}
	})
}

// Approve implements service.Service.
func (f *FakeService) Approve(ctx context.Context, taskID, userID string) (service.Task, error) {
	f.record("Approve")
	return f.groupMember(taskID, func(t *service.Task) {
		if t.Group.Approval == nil {
			t.Group.Approval = &service.GroupApproval{Required: true}
		}
		t.Group.Approval.Approved = true
	})
}

// GroupApprovals implements service.Service.
func (f *FakeService) GroupApprovals(ctx context.Context, groupID string) ([]service.Task, error) {
	f.record("GroupApprovals")
	tasks, err := f.group(groupID)
	if err != nil {
		return nil, err
	}
	pending := tasks[:0:0]
	for _, t := range tasks {
		if t.Group != nil && t.Group.Approval != nil && t.Group.Approval.Requested && !t.Group.Approval.Approved {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

var _ service.Service = (*FakeService)(nil)
