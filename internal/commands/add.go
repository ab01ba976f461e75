package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/output"
	"htask/internal/service"
	"htask/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	taskType string
	notes    string
	checks   stringList
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "htask add [--type <type>] [--notes <text>] [--check <item>]... <text...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.checks = nil
	fs.StringVar(&c.taskType, "type", string(service.Todo), "")
	fs.StringVar(&c.notes, "notes", "", "")
	fs.Var(&c.checks, "check", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return userError(errOut, "text required")
	}

	typ, err := service.ParseTaskType(c.taskType)
	if err != nil {
		return userError(errOut, "%v", err)
	}
	if len(c.checks) > 0 && typ != service.Daily && typ != service.Todo {
		return userError(errOut, "checklists are only supported on dailies and todos")
	}

	task := service.Task{Type: typ, Text: text, Notes: c.notes}
	for _, item := range c.checks {
		task.Checklist = append(task.Checklist, service.ChecklistItem{Text: item})
	}

	// Load first so the new task lands at the top of an ordered collection.
	if _, err := st.FetchUserTasks(ctx, false); err != nil {
		return backendFailure(errOut, err)
	}
	if _, err := st.Create(ctx, task); err != nil {
		return backendFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", output.Ref(typ, 1))
	}
	return exitcode.Success
}
