// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskType is the kind of a task record.
type TaskType string

const (
	Habit  TaskType = "habit"
	Daily  TaskType = "daily"
	Todo   TaskType = "todo"
	Reward TaskType = "reward"
)

// TaskTypes lists the task types in display order.
var TaskTypes = []TaskType{Habit, Daily, Todo, Reward}

// Valid reports whether t is one of the four known task types.
func (t TaskType) Valid() bool {
	switch t {
	case Habit, Daily, Todo, Reward:
		return true
	}
	return false
}

// Collection returns the collection key for the type ("habits", "dailys", ...).
func (t TaskType) Collection() string {
	return string(t) + "s"
}

// ParseTaskType parses a task type name, accepting the collection form too.
func ParseTaskType(s string) (TaskType, error) {
	switch s {
	case "habit", "habits":
		return Habit, nil
	case "daily", "dailys", "dailies":
		return Daily, nil
	case "todo", "todos":
		return Todo, nil
	case "reward", "rewards":
		return Reward, nil
	}
	return "", fmt.Errorf("unknown task type: %s", s)
}

// Direction is the scoring direction.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ChecklistItem is a sub-item of a daily or todo.
type ChecklistItem struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// HistoryEntry is one point in a task's value history.
type HistoryEntry struct {
	Date       int64   `json:"date"`
	Value      float64 `json:"value"`
	ScoredUp   int     `json:"scoredUp,omitempty"`
	ScoredDown int     `json:"scoredDown,omitempty"`
	IsDue      *bool   `json:"isDue,omitempty"`
	Completed  *bool   `json:"completed,omitempty"`
}

// ChallengeLink ties a task to the challenge it came from.
type ChallengeLink struct {
	ID        string `json:"id,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	ShortName string `json:"shortName,omitempty"`
	Broken    string `json:"broken,omitempty"`
}

// GroupLink carries group assignment and approval state.
type GroupLink struct {
	ID                  string          `json:"id,omitempty"`
	TaskID              string          `json:"taskId,omitempty"`
	AssignedUsers       []string        `json:"assignedUsers,omitempty"`
	AssignedUsersDetail json.RawMessage `json:"assignedUsersDetail,omitempty"`
	Approval            *GroupApproval  `json:"approval,omitempty"`
}

// GroupApproval is the approval sub-document of a group task.
type GroupApproval struct {
	Required      bool       `json:"required"`
	Approved      bool       `json:"approved"`
	Requested     bool       `json:"requested"`
	RequestedDate *time.Time `json:"requestedDate,omitempty"`
}

// Task represents a single habit, daily, todo or reward.
type Task struct {
	ID                string          `json:"_id"`
	Type              TaskType        `json:"type"`
	Text              string          `json:"text"`
	Notes             string          `json:"notes,omitempty"`
	Priority          float64         `json:"priority,omitempty"`
	Value             float64         `json:"value"`
	Attribute         string          `json:"attribute,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Completed         bool            `json:"completed,omitempty"`
	Checklist         []ChecklistItem `json:"checklist,omitempty"`
	CollapseChecklist bool            `json:"collapseChecklist,omitempty"`
	History           []HistoryEntry  `json:"history,omitempty"`

	// Habits
	Up          *bool `json:"up,omitempty"`
	Down        *bool `json:"down,omitempty"`
	CounterUp   int   `json:"counterUp,omitempty"`
	CounterDown int   `json:"counterDown,omitempty"`

	// Dailies
	Frequency string     `json:"frequency,omitempty"`
	EveryX    int        `json:"everyX,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	Streak    int        `json:"streak,omitempty"`
	IsDue     bool       `json:"isDue,omitempty"`

	// Todos
	Date          *time.Time `json:"date,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`

	Group     *GroupLink     `json:"group,omitempty"`
	Challenge *ChallengeLink `json:"challenge,omitempty"`
	UserID    string         `json:"userId,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// TasksOrder is the per-user ordering of task ids, keyed by collection.
type TasksOrder struct {
	Habits  []string `json:"habits"`
	Dailys  []string `json:"dailys"`
	Todos   []string `json:"todos"`
	Rewards []string `json:"rewards"`
}

// For returns the order list of the given type.
func (o TasksOrder) For(t TaskType) []string {
	switch t {
	case Habit:
		return o.Habits
	case Daily:
		return o.Dailys
	case Todo:
		return o.Todos
	case Reward:
		return o.Rewards
	}
	return nil
}

// Set replaces the order list of the given type.
func (o *TasksOrder) Set(t TaskType, ids []string) {
	switch t {
	case Habit:
		o.Habits = ids
	case Daily:
		o.Dailys = ids
	case Todo:
		o.Todos = ids
	case Reward:
		o.Rewards = ids
	}
}

// Clone returns a deep copy.
func (o TasksOrder) Clone() TasksOrder {
	return TasksOrder{
		Habits:  append([]string(nil), o.Habits...),
		Dailys:  append([]string(nil), o.Dailys...),
		Todos:   append([]string(nil), o.Todos...),
		Rewards: append([]string(nil), o.Rewards...),
	}
}

// User is the subset of the user document the client needs.
type User struct {
	ID         string     `json:"_id"`
	TasksOrder TasksOrder `json:"tasksOrder"`
}

// ScoreParam is one entry of a bulk score request.
type ScoreParam struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
}

// ScoreResult is the server's answer to a score request.
type ScoreResult struct {
	Delta float64 `json:"delta"`
	HP    float64 `json:"hp"`
	MP    float64 `json:"mp"`
	Exp   float64 `json:"exp"`
	GP    float64 `json:"gp"`
	Lvl   int     `json:"lvl"`

	// Tmp holds transient server side effects such as drops or quest progress.
	Tmp json.RawMessage `json:"_tmp,omitempty"`
}

// KeepMode tells the server what to do with the local copy of unlinked tasks.
type KeepMode string

const (
	Keep      KeepMode = "keep"
	Remove    KeepMode = "remove"
	KeepAll   KeepMode = "keep-all"
	RemoveAll KeepMode = "remove-all"
)
