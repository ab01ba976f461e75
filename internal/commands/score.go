package commands

import (
	"context"
	"flag"
	"io"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/output"
	"htask/internal/service"
	"htask/internal/store"
)

func init() {
	Register(NewScoreCmd("up", "Score a task up", service.Up))
	Register(NewScoreCmd("down", "Score a task down", service.Down))
	Register(NewScoreCmd("done", "Mark a daily or todo completed", service.Up))
}

// ScoreCmd implements the up, down and done commands.
type ScoreCmd struct {
	name     string
	synopsis string
	dir      service.Direction
}

// NewScoreCmd returns a score command scoring in dir.
func NewScoreCmd(name, synopsis string, dir service.Direction) *ScoreCmd {
	return &ScoreCmd{name: name, synopsis: synopsis, dir: dir}
}

func (c *ScoreCmd) Name() string      { return c.name }
func (c *ScoreCmd) Aliases() []string { return nil }
func (c *ScoreCmd) Synopsis() string  { return c.synopsis }
func (c *ScoreCmd) Usage() string     { return "htask " + c.name + " <ref>" }
func (c *ScoreCmd) NeedsAuth() bool   { return true }

func (c *ScoreCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ScoreCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) > 0 {
		return userError(errOut, "unexpected argument: %s", rest[0])
	}

	if c.name == "done" {
		if task.Type != service.Daily && task.Type != service.Todo {
			return userError(errOut, "only dailies and todos can be completed (use up)")
		}
		if task.Completed {
			return userError(errOut, "task already completed")
		}
	}

	res, err := st.Score(ctx, task.ID, c.dir)
	if err != nil {
		return backendFailure(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatScore(out, res)
	}
	return exitcode.Success
}
