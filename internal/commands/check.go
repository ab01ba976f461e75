package commands

import (
	"context"
	"flag"
	"io"
	"strconv"

	"htask/internal/config"
	"htask/internal/store"
)

func init() {
	Register(&CheckCmd{})
	Register(&CollapseCmd{})
}

// CheckCmd implements the check command.
type CheckCmd struct{}

func (c *CheckCmd) Name() string      { return "check" }
func (c *CheckCmd) Aliases() []string { return nil }
func (c *CheckCmd) Synopsis() string  { return "Toggle a checklist item" }
func (c *CheckCmd) Usage() string     { return "htask check <ref> <item-number>" }
func (c *CheckCmd) NeedsAuth() bool   { return true }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) == 0 {
		return userError(errOut, "checklist item number required")
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil || n < 1 || n > len(task.Checklist) {
		return userError(errOut, "checklist item out of range: %s", rest[0])
	}

	if _, err := st.ScoreChecklistItem(ctx, task.ID, task.Checklist[n-1].ID); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}

// CollapseCmd implements the collapse command.
type CollapseCmd struct{}

func (c *CollapseCmd) Name() string      { return "collapse" }
func (c *CollapseCmd) Aliases() []string { return nil }
func (c *CollapseCmd) Synopsis() string  { return "Toggle whether a checklist is collapsed" }
func (c *CollapseCmd) Usage() string     { return "htask collapse <ref>" }
func (c *CollapseCmd) NeedsAuth() bool   { return true }

func (c *CollapseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CollapseCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	task, _, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if err := st.CollapseChecklist(ctx, task.ID); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}
