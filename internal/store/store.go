// Package store keeps the signed-in user's tasks in memory and synchronizes
// them with a task service.
//
// Actions mutate local state first where the result is predictable, then
// issue the request and reflect the server's answer. Optimistic changes are
// not rolled back when a request fails; callers can force a reload instead.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"htask/internal/analytics"
	"htask/internal/service"
)

// LoadStatus tracks the state of a lazily loaded resource.
type LoadStatus string

const (
	NotLoaded LoadStatus = "NOT_LOADED"
	Loading   LoadStatus = "LOADING"
	Loaded    LoadStatus = "LOADED"
)

// Settings persists small per-user integers on the local machine.
type Settings interface {
	GetInt(ctx context.Context, userID, key string) (int, bool, error)
	SetInt(ctx context.Context, userID, key string, value int) error
}

// Store is the shared in-memory task state.
type Store struct {
	svc      service.Service
	settings Settings
	tracker  analytics.Tracker
	log      *zap.Logger
	newID    func() string

	loads singleflight.Group

	mu                   sync.Mutex
	tasks                Collections
	tasksStatus          LoadStatus
	user                 service.User
	userStatus           LoadStatus
	completedTodosStatus LoadStatus
}

// Option configures a Store.
type Option func(*Store)

// WithSettings sets the local settings backend. Defaults to process memory.
func WithSettings(s Settings) Option {
	return func(st *Store) { st.settings = s }
}

// WithTracker sets the analytics tracker. Defaults to analytics.Nop.
func WithTracker(t analytics.Tracker) Option {
	return func(st *Store) { st.tracker = t }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(st *Store) { st.log = l }
}

// WithIDGenerator sets the function used to id new tasks.
func WithIDGenerator(f func() string) Option {
	return func(st *Store) { st.newID = f }
}

// New creates an empty store backed by svc.
func New(svc service.Service, opts ...Option) *Store {
	s := &Store{
		svc:                  svc,
		settings:             NewMemorySettings(),
		tracker:              analytics.Nop{},
		log:                  zap.NewNop(),
		newID:                uuid.NewString,
		tasksStatus:          NotLoaded,
		userStatus:           NotLoaded,
		completedTodosStatus: NotLoaded,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Service returns the backing service.
func (s *Store) Service() service.Service {
	return s.svc
}

// FetchUser loads the signed-in user unless already loaded.
func (s *Store) FetchUser(ctx context.Context, force bool) (service.User, error) {
	s.mu.Lock()
	if s.userStatus == Loaded && !force {
		u := s.userCopyLocked()
		s.mu.Unlock()
		return u, nil
	}
	s.mu.Unlock()

	v, err := s.shared(ctx, "user", func(ctx context.Context) (any, error) {
		user, err := s.svc.User(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.user = user
		s.userStatus = Loaded
		return s.userCopyLocked(), nil
	})
	if err != nil {
		return service.User{}, err
	}
	return v.(service.User), nil
}

// FetchUserTasks loads and orders the user's tasks unless already loaded.
// Concurrent callers share a single request.
func (s *Store) FetchUserTasks(ctx context.Context, force bool) (Collections, error) {
	s.mu.Lock()
	if s.tasksStatus == Loaded && !force {
		c := s.tasks.Clone()
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Unlock()

	v, err := s.shared(ctx, "tasks", func(ctx context.Context) (any, error) {
		s.mu.Lock()
		prev := s.tasksStatus
		s.tasksStatus = Loading
		s.mu.Unlock()

		var (
			raw  []service.Task
			user service.User
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			raw, err = s.svc.UserTasks(gctx)
			return err
		})
		g.Go(func() error {
			// tasksOrder is needed before the tasks can be ordered.
			var err error
			user, err = s.FetchUser(gctx, false)
			return err
		})
		if err := g.Wait(); err != nil {
			s.mu.Lock()
			s.tasksStatus = prev
			s.mu.Unlock()
			return nil, err
		}

		ordered, unknown := Order(raw, user.TasksOrder)
		for _, t := range unknown {
			s.log.Warn("dropping task of unknown type", zap.String("id", t.ID), zap.String("type", string(t.Type)))
		}
		s.log.Debug("tasks loaded", zap.Int("count", ordered.Len()))

		s.mu.Lock()
		defer s.mu.Unlock()
		s.tasks = ordered
		s.tasksStatus = Loaded
		return s.tasks.Clone(), nil
	})
	if err != nil {
		return Collections{}, err
	}
	return v.(Collections), nil
}

// shared runs fn once for all concurrent callers of key. fn does not see
// the caller's cancellation; each caller stops waiting when its own ctx is
// done.
func (s *Store) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FetchCompletedTodos loads completed todos into the todo collection,
// replacing any completed todos already there. A call made while another
// load is in flight returns immediately.
func (s *Store) FetchCompletedTodos(ctx context.Context) error {
	if _, err := s.FetchUserTasks(ctx, false); err != nil {
		return err
	}

	s.mu.Lock()
	if s.completedTodosStatus == Loading {
		s.mu.Unlock()
		return nil
	}
	prev := s.completedTodosStatus
	s.completedTodosStatus = Loading
	s.mu.Unlock()

	completed, err := s.svc.CompletedTodos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.completedTodosStatus = prev
		return err
	}
	todos := withoutCompleted(s.tasks.Todos)
	s.tasks.Todos = append(todos, completed...)
	s.completedTodosStatus = Loaded
	return nil
}

// ClearCompletedTodos deletes completed todos on the server and locally.
func (s *Store) ClearCompletedTodos(ctx context.Context) error {
	if err := s.svc.ClearCompletedTodos(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.Todos = withoutCompleted(s.tasks.Todos)
	return nil
}

func withoutCompleted(todos []service.Task) []service.Task {
	out := make([]service.Task, 0, len(todos))
	for _, t := range todos {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot returns a copy of all collections.
func (s *Store) Snapshot() Collections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Tasks returns a copy of the collection of type t.
func (s *Store) Tasks(t service.TaskType) []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks.For(t)...)
}

// TasksOrder returns a copy of the user's task order.
func (s *Store) TasksOrder() service.TasksOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.TasksOrder.Clone()
}

// User returns a copy of the cached user.
func (s *Store) User() service.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userCopyLocked()
}

// TasksStatus returns the load status of the user's tasks.
func (s *Store) TasksStatus() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksStatus
}

// CompletedTodosStatus returns the load status of completed todos.
func (s *Store) CompletedTodosStatus() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedTodosStatus
}

// FindTask looks a task up by id in every collection.
func (s *Store) FindTask(id string) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, i := s.findLocked(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks.For(t)[i], true
}

func (s *Store) userCopyLocked() service.User {
	return service.User{ID: s.user.ID, TasksOrder: s.user.TasksOrder.Clone()}
}

// findLocked returns the type and index of the task with id, or -1.
func (s *Store) findLocked(id string) (service.TaskType, int) {
	for _, t := range service.TaskTypes {
		if i := indexOf(s.tasks.For(t), id); i >= 0 {
			return t, i
		}
	}
	return "", -1
}

func indexOf(tasks []service.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
