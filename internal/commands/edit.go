package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"htask/internal/config"
	"htask/internal/store"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	text  optionalString
	notes optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text or notes" }
func (c *EditCmd) Usage() string     { return "htask edit [--text <text>] [--notes <text>] <ref>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.text = optionalString{}
	c.notes = optionalString{}
	fs.Var(&c.text, "text", "")
	fs.Var(&c.notes, "notes", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if !c.text.set && !c.notes.set {
		return userError(errOut, "nothing to change (use --text or --notes)")
	}
	if c.text.set && strings.TrimSpace(c.text.value) == "" {
		return userError(errOut, "text required")
	}

	task, rest, code, found := resolveArgs(ctx, st, args, errOut)
	if !found {
		return code
	}
	if len(rest) > 0 {
		return userError(errOut, "unexpected argument: %s", rest[0])
	}

	if c.text.set {
		task.Text = c.text.value
	}
	if c.notes.set {
		task.Notes = c.notes.value
	}
	if _, err := st.Save(ctx, task); err != nil {
		return backendFailure(errOut, err)
	}
	return ok(cfg, out)
}

// optionalString is a string flag that records whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}
