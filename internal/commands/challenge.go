package commands

import (
	"context"
	"flag"
	"io"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/service"
	"htask/internal/store"
)

func init() {
	Register(&ChallengeCmd{})
	Register(&UnlinkCmd{})
	Register(&UnlinkAllCmd{})
}

// ChallengeCmd implements the challenge command.
type ChallengeCmd struct{}

func (c *ChallengeCmd) Name() string      { return "challenge" }
func (c *ChallengeCmd) Aliases() []string { return nil }
func (c *ChallengeCmd) Synopsis() string  { return "List a challenge's tasks" }
func (c *ChallengeCmd) Usage() string     { return "htask challenge tasks <challenge-id>" }
func (c *ChallengeCmd) NeedsAuth() bool   { return true }

func (c *ChallengeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ChallengeCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return userError(errOut, "subcommand required")
	}
	if args[0] != "tasks" {
		return userError(errOut, "unknown challenge subcommand: %s", args[0])
	}
	if len(args) != 2 {
		return userError(errOut, "challenge id required")
	}

	tasks, err := st.GetChallengeTasks(ctx, args[1])
	if err != nil {
		return backendFailure(errOut, err)
	}
	printTaskList(cfg, out, tasks)
	return exitcode.Success
}

// UnlinkCmd implements the unlink command.
type UnlinkCmd struct {
	keep string
}

func (c *UnlinkCmd) Name() string      { return "unlink" }
func (c *UnlinkCmd) Aliases() []string { return nil }
func (c *UnlinkCmd) Synopsis() string  { return "Unlink a task from its challenge" }
func (c *UnlinkCmd) Usage() string     { return "htask unlink [--keep keep|remove] <ref>" }
func (c *UnlinkCmd) NeedsAuth() bool   { return true }

func (c *UnlinkCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.keep, "keep", string(service.Keep), "")
}

func (c *UnlinkCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	keep := service.KeepMode(c.keep)
	if keep != service.Keep && keep != service.Remove {
		return userError(errOut, "invalid --keep value: %s (want keep or remove)", c.keep)
	}

	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) > 0 {
		return userError(errOut, "unexpected argument: %s", rest[0])
	}

	if err := st.UnlinkOneTask(ctx, task, keep); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}

// UnlinkAllCmd implements the unlink-all command.
type UnlinkAllCmd struct {
	keep string
}

func (c *UnlinkAllCmd) Name() string      { return "unlink-all" }
func (c *UnlinkAllCmd) Aliases() []string { return nil }
func (c *UnlinkAllCmd) Synopsis() string  { return "Unlink every task of a challenge" }
func (c *UnlinkAllCmd) Usage() string {
	return "htask unlink-all [--keep keep-all|remove-all] <challenge-id>"
}
func (c *UnlinkAllCmd) NeedsAuth() bool { return true }

func (c *UnlinkAllCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.keep, "keep", string(service.KeepAll), "")
}

func (c *UnlinkAllCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	keep := service.KeepMode(c.keep)
	if keep != service.KeepAll && keep != service.RemoveAll {
		return userError(errOut, "invalid --keep value: %s (want keep-all or remove-all)", c.keep)
	}
	if len(args) != 1 {
		return userError(errOut, "challenge id required")
	}

	if err := st.UnlinkAllTasks(ctx, args[0], keep); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}
