package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/store"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	bearer string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store API credentials" }
func (c *LoginCmd) Usage() string {
	return "htask login [common flags] [--bearer <token>] <user-id> <api-token>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.bearer, "bearer", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: user id and api token required")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Find both under Settings > Site Data > API in the web app, then run:")
		fmt.Fprintln(errOut, "  htask login <user-id> <api-token>")
		return exitcode.UserError
	}

	creds := config.Credentials{
		UserID:   strings.TrimSpace(args[0]),
		APIToken: strings.TrimSpace(args[1]),
	}
	if !creds.Valid() {
		return userError(errOut, "user id and api token must not be empty")
	}

	if cfg.HasCredentialsFile() && cfg.Credentials == creds && c.bearer == "" {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if err := cfg.SaveCredentials(creds); err != nil {
		fmt.Fprintf(errOut, "error: failed to save credentials: %v\n", err)
		return exitcode.AuthError
	}

	if c.bearer != "" {
		token := &oauth2.Token{AccessToken: c.bearer, TokenType: "Bearer"}
		if err := saveToken(cfg.TokenPath(), token); err != nil {
			fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
			return exitcode.AuthError
		}
	}

	return ok(cfg, out)
}

// saveToken saves an OAuth token to a file with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
