package store

import "htask/internal/service"

// Collections holds the user's tasks grouped by type, each in display order.
type Collections struct {
	Habits  []service.Task `json:"habits"`
	Dailys  []service.Task `json:"dailys"`
	Todos   []service.Task `json:"todos"`
	Rewards []service.Task `json:"rewards"`
}

// For returns the collection of the given type.
func (c *Collections) For(t service.TaskType) []service.Task {
	switch t {
	case service.Habit:
		return c.Habits
	case service.Daily:
		return c.Dailys
	case service.Todo:
		return c.Todos
	case service.Reward:
		return c.Rewards
	}
	return nil
}

// Set replaces the collection of the given type.
func (c *Collections) Set(t service.TaskType, tasks []service.Task) {
	switch t {
	case service.Habit:
		c.Habits = tasks
	case service.Daily:
		c.Dailys = tasks
	case service.Todo:
		c.Todos = tasks
	case service.Reward:
		c.Rewards = tasks
	}
}

// Len returns the total number of tasks.
func (c *Collections) Len() int {
	return len(c.Habits) + len(c.Dailys) + len(c.Todos) + len(c.Rewards)
}

// Clone returns a copy whose slices can be modified independently.
func (c Collections) Clone() Collections {
	return Collections{
		Habits:  append([]service.Task(nil), c.Habits...),
		Dailys:  append([]service.Task(nil), c.Dailys...),
		Todos:   append([]service.Task(nil), c.Todos...),
		Rewards: append([]service.Task(nil), c.Rewards...),
	}
}

// Order partitions raw by type and sorts each partition by tasksOrder.
//
// A task whose raw position already matches its slot in the order list is
// placed there directly; otherwise its slot is the first occurrence of its id.
// Tasks missing from the order list follow the ordered ones in their original
// relative order. Unfilled slots are dropped. When two tasks claim the same
// slot the later one joins the unordered remainder, so no task is lost.
//
// Tasks of an unknown type are returned separately.
func Order(raw []service.Task, tasksOrder service.TasksOrder) (Collections, []service.Task) {
	byType := make(map[service.TaskType][]service.Task, len(service.TaskTypes))
	var unknown []service.Task
	for _, task := range raw {
		if !task.Type.Valid() {
			unknown = append(unknown, task)
			continue
		}
		byType[task.Type] = append(byType[task.Type], task)
	}

	var out Collections
	for _, t := range service.TaskTypes {
		out.Set(t, orderOfType(byType[t], tasksOrder.For(t)))
	}
	return out, unknown
}

func orderOfType(tasks []service.Task, order []string) []service.Task {
	if len(tasks) == 0 {
		return []service.Task{}
	}

	firstIndex := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := firstIndex[id]; !seen {
			firstIndex[id] = i
		}
	}

	// A slot index is always below len(order) or is the task's own raw index.
	size := max(len(tasks), len(order))
	slots := make([]*service.Task, size)
	var unordered []service.Task

	for index := range tasks {
		task := &tasks[index]
		slot := -1
		if index < len(order) && order[index] == task.ID {
			slot = index
		} else if i, ok := firstIndex[task.ID]; ok {
			slot = i
		}

		if slot == -1 || slots[slot] != nil {
			unordered = append(unordered, *task)
			continue
		}
		slots[slot] = task
	}

	result := make([]service.Task, 0, len(tasks))
	for _, task := range slots {
		if task != nil {
			result = append(result, *task)
		}
	}
	return append(result, unordered...)
}
