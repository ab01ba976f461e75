package store

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"htask/internal/service"
)

func todo(id string) service.Task   { return service.Task{ID: id, Type: service.Todo} }
func habit(id string) service.Task  { return service.Task{ID: id, Type: service.Habit} }
func daily(id string) service.Task  { return service.Task{ID: id, Type: service.Daily} }
func reward(id string) service.Task { return service.Task{ID: id, Type: service.Reward} }

func ids(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestOrder_Partition(t *testing.T) {
	raw := []service.Task{todo("t1"), habit("h1"), daily("d1"), reward("r1"), todo("t2")}
	order := service.TasksOrder{
		Habits:  []string{"h1"},
		Dailys:  []string{"d1"},
		Todos:   []string{"t2", "t1"},
		Rewards: []string{"r1"},
	}

	got, unknown := Order(raw, order)

	if len(unknown) != 0 {
		t.Errorf("expected no unknown tasks, got %v", ids(unknown))
	}
	want := map[string][]string{
		"habits":  {"h1"},
		"dailys":  {"d1"},
		"todos":   {"t2", "t1"},
		"rewards": {"r1"},
	}
	gotIDs := map[string][]string{
		"habits":  ids(got.Habits),
		"dailys":  ids(got.Dailys),
		"todos":   ids(got.Todos),
		"rewards": ids(got.Rewards),
	}
	if diff := cmp.Diff(want, gotIDs); diff != "" {
		t.Errorf("Order() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_Cases(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		order []string
		want  []string
	}{
		{
			name:  "already in order uses the fast path",
			raw:   []string{"a", "b", "c"},
			order: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "reversed",
			raw:   []string{"a", "b", "c"},
			order: []string{"c", "b", "a"},
			want:  []string{"c", "b", "a"},
		},
		{
			name:  "missing from order are appended in original order",
			raw:   []string{"x", "a", "y", "b"},
			order: []string{"b", "a"},
			want:  []string{"b", "a", "x", "y"},
		},
		{
			name:  "stale order entries leave gaps that are removed",
			raw:   []string{"c", "a"},
			order: []string{"gone1", "a", "gone2", "c"},
			want:  []string{"a", "c"},
		},
		{
			name:  "order longer than the task list",
			raw:   []string{"z"},
			order: []string{"a", "b", "c", "d", "z"},
			want:  []string{"z"},
		},
		{
			name:  "duplicate order entries",
			raw:   []string{"b", "a"},
			order: []string{"a", "a", "b"},
			want:  []string{"a", "b"},
		},
		{
			name:  "duplicate task ids are both kept",
			raw:   []string{"a", "b", "a"},
			order: []string{"b", "a"},
			want:  []string{"b", "a", "a"},
		},
		{
			name:  "empty order",
			raw:   []string{"b", "a"},
			order: nil,
			want:  []string{"b", "a"},
		},
		{
			name:  "no tasks",
			raw:   nil,
			order: []string{"a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]service.Task, len(tt.raw))
			for i, id := range tt.raw {
				raw[i] = todo(id)
			}
			got, _ := Order(raw, service.TasksOrder{Todos: tt.order})
			if diff := cmp.Diff(tt.want, ids(got.Todos)); diff != "" {
				t.Errorf("Order() todos mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrder_UnknownTypeReturnedSeparately(t *testing.T) {
	raw := []service.Task{todo("t1"), {ID: "weird", Type: "quest"}}

	got, unknown := Order(raw, service.TasksOrder{})

	if diff := cmp.Diff([]string{"t1"}, ids(got.Todos)); diff != "" {
		t.Errorf("todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"weird"}, ids(unknown)); diff != "" {
		t.Errorf("unknown mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_KeepsTaskFields(t *testing.T) {
	raw := []service.Task{{ID: "a", Type: service.Todo, Text: "Buy milk", Completed: true}}

	got, _ := Order(raw, service.TasksOrder{Todos: []string{"a"}})

	if diff := cmp.Diff(raw, got.Todos); diff != "" {
		t.Errorf("task changed by Order (-want +got):\n%s", diff)
	}
}

// TestOrder_Properties checks, over random inputs, that no task is lost, that
// ordered tasks follow the order list and that unordered tasks come last in
// their original relative order.
func TestOrder_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(12)
		raw := make([]service.Task, n)
		for i := range raw {
			raw[i] = todo(fmt.Sprintf("t%d", rng.Intn(15)))
		}
		order := make([]string, rng.Intn(15))
		for i := range order {
			order[i] = fmt.Sprintf("t%d", rng.Intn(15))
		}

		got, _ := Order(raw, service.TasksOrder{Todos: order})

		if len(got.Todos) != len(raw) {
			t.Fatalf("lost tasks: raw=%v order=%v got=%v", ids(raw), order, ids(got.Todos))
		}

		counts := make(map[string]int)
		for _, task := range raw {
			counts[task.ID]++
		}
		for _, task := range got.Todos {
			counts[task.ID]--
		}
		for id, c := range counts {
			if c != 0 {
				t.Fatalf("task %s count off by %d: raw=%v order=%v got=%v", id, c, ids(raw), order, ids(got.Todos))
			}
		}

		inOrder := make(map[string]bool)
		for _, id := range order {
			inOrder[id] = true
		}

		if hasDuplicates(ids(raw)) {
			continue
		}

		// Unordered tasks form a suffix in original relative order.
		var wantTail []string
		for _, task := range raw {
			if !inOrder[task.ID] {
				wantTail = append(wantTail, task.ID)
			}
		}
		gotIDs := ids(got.Todos)
		if len(wantTail) > 0 {
			tail := gotIDs[len(gotIDs)-len(wantTail):]
			if diff := cmp.Diff(wantTail, tail); diff != "" {
				t.Fatalf("unordered tail mismatch (-want +got):\n%s\nraw=%v order=%v", diff, ids(raw), order)
			}
		}

		// With a duplicate-free order list the ordered head follows it.
		if !hasDuplicates(order) {
			head := gotIDs[:len(gotIDs)-len(wantTail)]
			last := -1
			for _, id := range head {
				pos := firstIndexOf(order, id)
				if pos <= last {
					t.Fatalf("ordered head out of order: raw=%v order=%v got=%v", ids(raw), order, gotIDs)
				}
				last = pos
			}
		}
	}
}

func hasDuplicates(s []string) bool {
	seen := make(map[string]bool, len(s))
	for _, v := range s {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

func firstIndexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
