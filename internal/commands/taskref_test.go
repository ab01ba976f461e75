package commands

import (
	"context"
	"errors"
	"testing"

	"htask/internal/service"
	"htask/internal/store"
	"htask/internal/testutil"
)

func TestParseTaskRef(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     TaskRef
		consumed int
	}{
		{"combined", []string{"t1"}, TaskRef{Type: service.Todo, TaskNum: 1}, 1},
		{"combined multi digit", []string{"h12"}, TaskRef{Type: service.Habit, TaskNum: 12}, 1},
		{"separated", []string{"d", "3"}, TaskRef{Type: service.Daily, TaskNum: 3}, 2},
		{"reward", []string{"r2", "extra"}, TaskRef{Type: service.Reward, TaskNum: 2}, 1},
		{"raw id", []string{"6f1c2a9e-0b7d-4a51-9a43-3e7f0c1d2b4a"}, TaskRef{ID: "6f1c2a9e-0b7d-4a51-9a43-3e7f0c1d2b4a"}, 1},
		{"id starting with a type letter", []string{"todo-abc"}, TaskRef{ID: "todo-abc"}, 1},
		{"non type letter", []string{"a1"}, TaskRef{ID: "a1"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, n, err := ParseTaskRef(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, ref)
			}
			if n != tt.consumed {
				t.Errorf("expected %d args consumed, got %d", tt.consumed, n)
			}
		})
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty", nil, "task reference required"},
		{"empty string", []string{""}, "task reference required"},
		{"letter only", []string{"t"}, "task reference required"},
		{"numeric only", []string{"5"}, "invalid task reference: 5 (missing type letter)"},
		{"letter and word", []string{"h", "abc"}, "invalid task reference: h abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTaskRef(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestTaskRef_String(t *testing.T) {
	if got := (TaskRef{Type: service.Daily, TaskNum: 4}).String(); got != "d4" {
		t.Errorf("expected %q, got %q", "d4", got)
	}
	if got := (TaskRef{ID: "abc"}).String(); got != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
}

func TestResolveTask(t *testing.T) {
	svc := testutil.NewFakeService("user-1")
	svc.AddTask(service.Task{ID: "a", Type: service.Todo, Text: "A"})
	svc.AddTask(service.Task{ID: "b", Type: service.Todo, Text: "B"})
	svc.SetOrder(service.Todo, "b", "a")
	st := store.New(svc)
	ctx := context.Background()

	task, err := ResolveTask(ctx, st, TaskRef{Type: service.Todo, TaskNum: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "b" {
		t.Errorf("expected first ordered todo b, got %q", task.ID)
	}

	task, err = ResolveTask(ctx, st, TaskRef{ID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Text != "A" {
		t.Errorf("expected task A, got %q", task.Text)
	}

	_, err = ResolveTask(ctx, st, TaskRef{Type: service.Habit, TaskNum: 1})
	var oor errTaskOutOfRange
	if !errors.As(err, &oor) {
		t.Errorf("expected out of range error, got %v", err)
	}

	_, err = ResolveTask(ctx, st, TaskRef{ID: "missing"})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if n := svc.CallCount("UserTasks"); n != 1 {
		t.Errorf("expected tasks loaded once, got %d", n)
	}
}
