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
	Register(&GroupCmd{})
}

// GroupCmd implements the group command and its subcommands.
type GroupCmd struct{}

func (c *GroupCmd) Name() string      { return "group" }
func (c *GroupCmd) Aliases() []string { return nil }
func (c *GroupCmd) Synopsis() string  { return "Manage group tasks" }
func (c *GroupCmd) Usage() string {
	return "htask group tasks|completed|approvals <group-id>\n" +
		"  htask group assign|unassign|needs-work|approve <task-id> <user-id>\n" +
		"  htask group move <task-id> <position>"
}
func (c *GroupCmd) NeedsAuth() bool { return true }

func (c *GroupCmd) RegisterFlags(fs *flag.FlagSet) {}

// memberActions maps subcommands acting on a task and a member to store actions.
var memberActions = map[string]func(*store.Store, context.Context, string, string) (service.Task, error){
	"assign":     (*store.Store).AssignTask,
	"unassign":   (*store.Store).UnassignTask,
	"needs-work": (*store.Store).NeedsWork,
	"approve":    (*store.Store).Approve,
}

// listActions maps subcommands listing a group's tasks to store actions.
var listActions = map[string]func(*store.Store, context.Context, string) ([]service.Task, error){
	"tasks":     (*store.Store).GetGroupTasks,
	"completed": (*store.Store).GetCompletedGroupTasks,
	"approvals": (*store.Store).GetGroupApprovals,
}

func (c *GroupCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return userError(errOut, "subcommand required")
	}
	sub, args := args[0], args[1:]

	if list, found := listActions[sub]; found {
		if len(args) != 1 {
			return userError(errOut, "group id required")
		}
		tasks, err := list(st, ctx, args[0])
		if err != nil {
			return backendFailure(errOut, err)
		}
		printTaskList(cfg, out, tasks)
		return exitcode.Success
	}

	if action, found := memberActions[sub]; found {
		if len(args) != 2 {
			return userError(errOut, "task id and user id required")
		}
		task, err := action(st, ctx, args[0], args[1])
		if err != nil {
			return backendFailure(errOut, err)
		}
		if !cfg.Quiet {
			output.FormatGroupTask(out, task)
		}
		return exitcode.Success
	}

	if sub == "move" {
		if len(args) != 2 {
			return userError(errOut, "task id and position required")
		}
		position, err := parsePosition(args[1])
		if err != nil {
			return userError(errOut, "%v", err)
		}
		order, err := st.MoveGroupTask(ctx, args[0], position)
		if err != nil {
			return backendFailure(errOut, err)
		}
		if !cfg.Quiet {
			output.FormatOrder(out, order)
		}
		return exitcode.Success
	}

	return userError(errOut, "unknown group subcommand: %s", sub)
}

// printTaskList prints group or challenge tasks keyed by id.
func printTaskList(cfg *config.Config, out io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}
	for _, t := range tasks {
		output.FormatGroupTask(out, t)
	}
}
