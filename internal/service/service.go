package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the server does not know the resource.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for missing, expired or revoked credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalid is returned when the server rejects a request as malformed.
	ErrInvalid = errors.New("invalid request")
)

// Service defines the interface for task backend operations.
// All task API calls go through this interface.
// Commands and the store never import the HTTP backend directly.
type Service interface {
	// User returns the signed-in user's id and task order.
	User(ctx context.Context) (User, error)

	// UserTasks returns all open tasks of the signed-in user, unordered.
	UserTasks(ctx context.Context) ([]Task, error)

	// CompletedTodos returns the user's recently completed todos.
	CompletedTodos(ctx context.Context) ([]Task, error)

	// ClearCompletedTodos deletes completed todos on the server.
	ClearCompletedTodos(ctx context.Context) error

	// CreateUserTasks creates one or more tasks and returns the stored versions.
	CreateUserTasks(ctx context.Context, tasks []Task) ([]Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// PatchTask sends a partial update for a task.
	PatchTask(ctx context.Context, taskID string, fields map[string]any) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID string) error

	// ScoreTask scores a task up or down.
	ScoreTask(ctx context.Context, taskID string, dir Direction) (ScoreResult, error)

	// BulkScore scores several tasks in one request.
	BulkScore(ctx context.Context, params []ScoreParam) (ScoreResult, error)

	// ScoreChecklistItem toggles a checklist item and returns the updated task.
	ScoreChecklistItem(ctx context.Context, taskID, itemID string) (Task, error)

	// MoveTask moves a task to position and returns the new order of its type.
	MoveTask(ctx context.Context, taskID string, position int) ([]string, error)

	// MoveGroupTask moves a group task to position and returns the new order.
	MoveGroupTask(ctx context.Context, taskID string, position int) ([]string, error)

	// UnlinkOneTask detaches a challenge task from its challenge.
	UnlinkOneTask(ctx context.Context, taskID string, keep KeepMode) error

	// UnlinkAllTasks detaches every task of a challenge.
	UnlinkAllTasks(ctx context.Context, challengeID string, keep KeepMode) error

	// ChallengeTasks lists the tasks of a challenge.
	ChallengeTasks(ctx context.Context, challengeID string) ([]Task, error)

	// CreateChallengeTasks adds tasks to a challenge.
	CreateChallengeTasks(ctx context.Context, challengeID string, tasks []Task) ([]Task, error)

	// GroupTasks lists the open tasks of a group.
	GroupTasks(ctx context.Context, groupID string) ([]Task, error)

	// CompletedGroupTasks lists the completed todos of a group.
	CompletedGroupTasks(ctx context.Context, groupID string) ([]Task, error)

	// CreateGroupTasks adds tasks to a group.
	CreateGroupTasks(ctx context.Context, groupID string, tasks []Task) ([]Task, error)

	// AssignTask assigns a group task to a member.
	AssignTask(ctx context.Context, taskID, userID string) (Task, error)

	// UnassignTask removes a member from a group task.
	UnassignTask(ctx context.Context, taskID, userID string) (Task, error)

	// NeedsWork sends an approval request back to the member.
	NeedsWork(ctx context.Context, taskID, userID string) (Task, error)

	// Approve approves a member's completion of a group task.
	Approve(ctx context.Context, taskID, userID string) (Task, error)

	// GroupApprovals lists pending approval requests of a group.
	GroupApprovals(ctx context.Context, groupID string) ([]Task, error)
}
