package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"htask/internal/output"
	"htask/internal/service"
	"htask/internal/store"
)

// TaskRef represents a parsed task reference.
// A reference is either a type letter and a 1-based position ("t3", "h 1")
// or a raw task id.
type TaskRef struct {
	Type    service.TaskType // empty if ID is set
	TaskNum int              // 1-based position within the type's collection
	ID      string           // raw task id
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args and returns the number of
// args it consumed.
//
// Parsing rules:
//  1. <letter><digits> with a type letter (h, d, t, r) is a positional reference
//  2. A single type letter followed by an all-digits arg is a positional reference
//  3. A single type letter with no second arg is an error: task reference required
//  4. All digits is an error: the type letter is required
//  5. Anything else is a raw task id
func ParseTaskRef(args []string) (TaskRef, int, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, 0, ErrTaskRefRequired
	}

	first := args[0]

	if isAllDigits(first) {
		return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s (missing type letter)", first)
	}

	letter := rune(first[0])
	if typ, ok := output.TypeForLetter(letter); ok {
		if len(first) > 1 && isAllDigits(first[1:]) {
			num, err := strconv.Atoi(first[1:])
			if err != nil {
				return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", first)
			}
			return TaskRef{Type: typ, TaskNum: num}, 1, nil
		}

		if len(first) == 1 {
			if len(args) < 2 {
				return TaskRef{}, 0, ErrTaskRefRequired
			}
			if !isAllDigits(args[1]) {
				return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s %s", first, args[1])
			}
			num, err := strconv.Atoi(args[1])
			if err != nil {
				return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", args[1])
			}
			return TaskRef{Type: typ, TaskNum: num}, 2, nil
		}
	}

	return TaskRef{ID: first}, 1, nil
}

// String formats the reference the way it was written.
func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return output.Ref(r.Type, r.TaskNum)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// errTaskOutOfRange reports a positional reference past the collection end.
type errTaskOutOfRange struct{ ref TaskRef }

func (e errTaskOutOfRange) Error() string {
	return fmt.Sprintf("task number out of range: %s", e.ref)
}

// ResolveTask loads the user's tasks and returns the task ref points at.
// Positions count from 1 in the order printed by the list command.
func ResolveTask(ctx context.Context, st *store.Store, ref TaskRef) (service.Task, error) {
	if _, err := st.FetchUserTasks(ctx, false); err != nil {
		return service.Task{}, err
	}

	if ref.ID != "" {
		task, ok := st.FindTask(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("%w: task %s", service.ErrNotFound, ref.ID)
		}
		return task, nil
	}

	tasks := st.Tasks(ref.Type)
	if ref.TaskNum < 1 || ref.TaskNum > len(tasks) {
		return service.Task{}, errTaskOutOfRange{ref: ref}
	}
	return tasks[ref.TaskNum-1], nil
}

// resolveArgs parses a task reference from args, resolves it and returns the
// task with the remaining args. On failure the error is reported and the
// exit code returned.
func resolveArgs(ctx context.Context, st *store.Store, args []string, errOut io.Writer) (service.Task, []string, int, bool) {
	ref, n, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, nil, userError(errOut, "%v", err), false
	}
	task, err := ResolveTask(ctx, st, ref)
	if err != nil {
		var oor errTaskOutOfRange
		if errors.As(err, &oor) {
			return service.Task{}, nil, userError(errOut, "%v", err), false
		}
		return service.Task{}, nil, backendFailure(errOut, err), false
	}
	return task, args[n:], 0, true
}
