package commands

import (
	"context"
	"flag"
	"io"

	"htask/internal/config"
	"htask/internal/store"
)

func init() {
	Register(&RmCmd{})
	Register(&ClearCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "htask rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) > 0 {
		return userError(errOut, "unexpected argument: %s", rest[0])
	}
	if task.Challenge != nil && task.Challenge.ID != "" && task.Challenge.Broken == "" {
		return userError(errOut, "task belongs to a challenge (use: htask unlink %s)", task.ID)
	}

	if err := st.Destroy(ctx, task); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}

// ClearCmd implements the clear command.
type ClearCmd struct{}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed todos" }
func (c *ClearCmd) Usage() string     { return "htask clear" }
func (c *ClearCmd) NeedsAuth() bool   { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return userError(errOut, "unexpected argument: %s", args[0])
	}
	if err := st.ClearCompletedTodos(ctx); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}
