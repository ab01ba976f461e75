package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "htask help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  htask                 List all tasks")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
		fmt.Fprintf(out, "      %s\n", cmd.Synopsis())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task references:
  h<n>, d<n>, t<n>, r<n>   The n-th habit, daily, todo or reward as listed
  <id>                     A task id

Types: habit, daily, todo, reward

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
