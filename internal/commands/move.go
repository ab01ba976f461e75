package commands

import (
	"context"
	"flag"
	"io"
	"strconv"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/output"
	"htask/internal/store"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to a position (1 is the top, 0 the bottom)" }
func (c *MoveCmd) Usage() string     { return "htask move <ref> <position>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) == 0 {
		return userError(errOut, "position required")
	}
	position, err := parsePosition(rest[0])
	if err != nil {
		return userError(errOut, "%v", err)
	}

	if _, err := st.Move(ctx, task.ID, position); err != nil {
		return backendFailure(errOut, err)
	}
	if !cfg.Quiet {
		tasks := st.Tasks(task.Type)
		for i, t := range tasks {
			output.FormatTask(out, output.Ref(task.Type, i+1), t)
		}
	}
	return exitcode.Success
}

// parsePosition converts a 1-based CLI position to the server's 0-based one.
// Position 0 means the bottom and maps to -1.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errInvalidPosition(s)
	}
	if n == 0 {
		return -1, nil
	}
	return n - 1, nil
}

type errInvalidPosition string

func (e errInvalidPosition) Error() string { return "invalid position: " + string(e) }
