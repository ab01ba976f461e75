package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"htask/internal/analytics"
	"htask/internal/service"
)

// TasksCreatedCountKey is the local setting counting tracked task creations.
const TasksCreatedCountKey = "tasksCreatedCount"

// trackedCreations is how many task creations are reported per user.
const trackedCreations = 2

// sanitizeChecklist drops checklist items without text.
func sanitizeChecklist(t *service.Task) {
	if t.Checklist == nil {
		return
	}
	items := make([]service.ChecklistItem, 0, len(t.Checklist))
	for _, item := range t.Checklist {
		if item.Text != "" {
			items = append(items, item)
		}
	}
	t.Checklist = items
}

// merge overlays src onto dst. The history is kept when src has none,
// since edits and partial responses omit it.
func merge(dst *service.Task, src service.Task) {
	history := dst.History
	*dst = src
	if src.History == nil {
		dst.History = history
	}
}

// replaceLocked merges task into the local copy with the same id.
// Returns false if the task is not in its collection.
func (s *Store) replaceLocked(task service.Task) bool {
	list := s.tasks.For(task.Type)
	i := indexOf(list, task.ID)
	if i < 0 {
		return false
	}
	merge(&list[i], task)
	return true
}

// removeLocked deletes the task from its collection.
func (s *Store) removeLocked(task service.Task) {
	list := s.tasks.For(task.Type)
	if i := indexOf(list, task.ID); i >= 0 {
		s.tasks.Set(task.Type, append(list[:i:i], list[i+1:]...))
	}
}

// Create adds tasks to the top of their collections and of the user's task
// order, then creates them on the server. Tasks without an id get one.
func (s *Store) Create(ctx context.Context, tasks ...service.Task) ([]service.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	payload := make([]service.Task, len(tasks))
	copy(payload, tasks)
	for i := range payload {
		if !payload[i].Type.Valid() {
			return nil, fmt.Errorf("%w: unknown task type %q", service.ErrInvalid, payload[i].Type)
		}
	}

	s.mu.Lock()
	for i := range payload {
		t := &payload[i]
		sanitizeChecklist(t)
		if t.ID == "" {
			t.ID = s.newID()
		}
		s.tasks.Set(t.Type, append([]service.Task{*t}, s.tasks.For(t.Type)...))
		s.user.TasksOrder.Set(t.Type, append([]string{t.ID}, s.user.TasksOrder.For(t.Type)...))
	}
	userID := s.user.ID
	s.mu.Unlock()

	created, err := s.svc.CreateUserTasks(ctx, payload)
	if err != nil {
		return nil, err
	}

	for _, res := range created {
		s.mu.Lock()
		s.replaceLocked(res)
		s.mu.Unlock()
		s.trackCreated(ctx, userID, res.Type)
	}
	return created, nil
}

// trackCreated reports the first few task creations of a user.
// Failures of the local settings store are logged, not returned.
func (s *Store) trackCreated(ctx context.Context, userID string, taskType service.TaskType) {
	count, ok, err := s.settings.GetInt(ctx, userID, TasksCreatedCountKey)
	if err != nil {
		s.log.Warn("read tasks created count", zap.Error(err))
		return
	}
	if ok && count >= trackedCreations {
		return
	}

	s.tracker.Track(ctx, "task created", map[string]any{
		"uuid":     userID,
		"hitType":  analytics.HitTypeEvent,
		"category": analytics.CategoryBehavior,
		"taskType": string(taskType),
	})

	next := 1
	if ok && count > 0 {
		next = count + 1
	}
	if err := s.settings.SetInt(ctx, userID, TasksCreatedCountKey, next); err != nil {
		s.log.Warn("write tasks created count", zap.Error(err))
	}
}

// Save applies an edited task locally, sends it without its history and
// reflects the server's version.
func (s *Store) Save(ctx context.Context, edited service.Task) (service.Task, error) {
	sanitizeChecklist(&edited)

	s.mu.Lock()
	found := s.replaceLocked(edited)
	s.mu.Unlock()

	updated, err := s.svc.UpdateTask(ctx, edited)
	if err != nil {
		return service.Task{}, err
	}
	if found {
		s.mu.Lock()
		s.replaceLocked(updated)
		s.mu.Unlock()
	}
	return updated, nil
}

// Score scores a task and applies the returned delta to the local copy.
func (s *Store) Score(ctx context.Context, taskID string, dir service.Direction) (service.ScoreResult, error) {
	if dir != service.Up && dir != service.Down {
		return service.ScoreResult{}, fmt.Errorf("%w: direction must be up or down", service.ErrInvalid)
	}
	res, err := s.svc.ScoreTask(ctx, taskID, dir)
	if err != nil {
		return service.ScoreResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if typ, i := s.findLocked(taskID); i >= 0 {
		t := &s.tasks.For(typ)[i]
		t.Value += res.Delta
		switch typ {
		case service.Daily, service.Todo:
			t.Completed = dir == service.Up
		case service.Habit:
			if dir == service.Up {
				t.CounterUp++
			} else {
				t.CounterDown++
			}
		}
	}
	return res, nil
}

// BulkScore scores several tasks in one request.
func (s *Store) BulkScore(ctx context.Context, params []service.ScoreParam) (service.ScoreResult, error) {
	return s.svc.BulkScore(ctx, params)
}

// ScoreChecklistItem toggles a checklist item and reflects the updated task.
func (s *Store) ScoreChecklistItem(ctx context.Context, taskID, itemID string) (service.Task, error) {
	task, err := s.svc.ScoreChecklistItem(ctx, taskID, itemID)
	if err != nil {
		return service.Task{}, err
	}
	if task.ID != "" {
		s.mu.Lock()
		s.replaceLocked(task)
		s.mu.Unlock()
	}
	return task, nil
}

// CollapseChecklist toggles whether a task's checklist is shown collapsed.
func (s *Store) CollapseChecklist(ctx context.Context, taskID string) error {
	s.mu.Lock()
	typ, i := s.findLocked(taskID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: task %s", service.ErrNotFound, taskID)
	}
	t := &s.tasks.For(typ)[i]
	t.CollapseChecklist = !t.CollapseChecklist
	collapsed := t.CollapseChecklist
	s.mu.Unlock()

	_, err := s.svc.PatchTask(ctx, taskID, map[string]any{"collapseChecklist": collapsed})
	return err
}

// Destroy removes a task locally and deletes it on the server.
func (s *Store) Destroy(ctx context.Context, task service.Task) error {
	s.mu.Lock()
	s.removeLocked(task)
	s.mu.Unlock()

	return s.svc.DeleteTask(ctx, task.ID)
}

// Move moves a task to position. The server's new order for the task's type
// replaces the local order and the collection is re-sorted by it.
func (s *Store) Move(ctx context.Context, taskID string, position int) ([]string, error) {
	order, err := s.svc.MoveTask(ctx, taskID, position)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if typ, i := s.findLocked(taskID); i >= 0 && order != nil {
		s.user.TasksOrder.Set(typ, append([]string(nil), order...))
		s.tasks.Set(typ, orderOfType(s.tasks.For(typ), order))
	}
	return order, nil
}

// UnlinkOneTask removes a challenge task locally and unlinks it on the server.
// An empty keep defaults to service.Keep.
func (s *Store) UnlinkOneTask(ctx context.Context, task service.Task, keep service.KeepMode) error {
	if keep == "" {
		keep = service.Keep
	}
	s.mu.Lock()
	s.removeLocked(task)
	s.mu.Unlock()

	return s.svc.UnlinkOneTask(ctx, task.ID, keep)
}

// UnlinkAllTasks unlinks every task of a challenge.
// An empty keep defaults to service.KeepAll.
func (s *Store) UnlinkAllTasks(ctx context.Context, challengeID string, keep service.KeepMode) error {
	if keep == "" {
		keep = service.KeepAll
	}
	return s.svc.UnlinkAllTasks(ctx, challengeID, keep)
}
