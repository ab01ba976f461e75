package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/output"
	"htask/internal/service"
	"htask/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `htask` (no args) and `htask list`.
type ListCmd struct {
	taskType  string
	completed bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "htask list [--type <type>] [--completed]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.taskType, "type", "", "")
	fs.BoolVar(&c.completed, "completed", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return userError(errOut, "unexpected argument: %s", args[0])
	}

	types := service.TaskTypes
	if c.taskType != "" {
		t, err := service.ParseTaskType(c.taskType)
		if err != nil {
			return userError(errOut, "%v", err)
		}
		types = []service.TaskType{t}
	}

	if _, err := st.FetchUserTasks(ctx, false); err != nil {
		return backendFailure(errOut, err)
	}

	// Positions are taken before completed todos are merged in so that
	// references stay valid for later commands.
	open := st.Snapshot()

	var completed []service.Task
	if c.completed {
		if err := st.FetchCompletedTodos(ctx); err != nil {
			return backendFailure(errOut, err)
		}
		for _, t := range st.Tasks(service.Todo) {
			if t.Completed {
				completed = append(completed, t)
			}
		}
	}

	hasAnyTasks := false
	for _, t := range types {
		tasks := open.For(t)
		if len(tasks) == 0 {
			continue
		}
		output.FormatSectionHeader(out, t)
		for i, task := range tasks {
			output.FormatTask(out, output.Ref(t, i+1), task)
		}
		hasAnyTasks = true
	}

	if len(completed) > 0 && (c.taskType == "" || types[0] == service.Todo) {
		output.FormatHeader(out, "Completed")
		for _, task := range completed {
			output.FormatTask(out, task.ID, task)
		}
		hasAnyTasks = true
	}

	if !hasAnyTasks && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
