package store

import (
	"context"

	"htask/internal/service"
)

// Challenge and group tasks are not part of the user's collections; these
// actions pass through to the service.

// GetChallengeTasks lists the tasks of a challenge.
func (s *Store) GetChallengeTasks(ctx context.Context, challengeID string) ([]service.Task, error) {
	return s.svc.ChallengeTasks(ctx, challengeID)
}

// CreateChallengeTasks adds tasks to a challenge.
func (s *Store) CreateChallengeTasks(ctx context.Context, challengeID string, tasks []service.Task) ([]service.Task, error) {
	for i := range tasks {
		sanitizeChecklist(&tasks[i])
	}
	return s.svc.CreateChallengeTasks(ctx, challengeID, tasks)
}

// GetGroupTasks lists the open tasks of a group.
func (s *Store) GetGroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	return s.svc.GroupTasks(ctx, groupID)
}

// GetCompletedGroupTasks lists the completed todos of a group.
func (s *Store) GetCompletedGroupTasks(ctx context.Context, groupID string) ([]service.Task, error) {
	return s.svc.CompletedGroupTasks(ctx, groupID)
}

// CreateGroupTasks adds tasks to a group.
func (s *Store) CreateGroupTasks(ctx context.Context, groupID string, tasks []service.Task) ([]service.Task, error) {
	for i := range tasks {
		sanitizeChecklist(&tasks[i])
	}
	return s.svc.CreateGroupTasks(ctx, groupID, tasks)
}

// AssignTask assigns a group task to a member.
func (s *Store) AssignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	return s.svc.AssignTask(ctx, taskID, userID)
}

// UnassignTask removes a member from a group task.
func (s *Store) UnassignTask(ctx context.Context, taskID, userID string) (service.Task, error) {
	return s.svc.UnassignTask(ctx, taskID, userID)
}

// NeedsWork sends a member's completed group task back for more work.
func (s *Store) NeedsWork(ctx context.Context, taskID, userID string) (service.Task, error) {
	return s.svc.NeedsWork(ctx, taskID, userID)
}

// Approve approves a member's completion of a group task.
func (s *Store) Approve(ctx context.Context, taskID, userID string) (service.Task, error) {
	return s.svc.Approve(ctx, taskID, userID)
}

// GetGroupApprovals lists pending approval requests of a group.
func (s *Store) GetGroupApprovals(ctx context.Context, groupID string) ([]service.Task, error) {
	return s.svc.GroupApprovals(ctx, groupID)
}

// MoveGroupTask moves a group task to position and returns the new order.
func (s *Store) MoveGroupTask(ctx context.Context, taskID string, position int) ([]string, error) {
	return s.svc.MoveGroupTask(ctx, taskID, position)
}
