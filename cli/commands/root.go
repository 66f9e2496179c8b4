package commands

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"net/http"
	"satchel/cli/globals"
	"satchel/cli/utils"
	"satchel/shared/constants"
)

// Commands tagged with this annotation (or nested under one that is) need a
// saved session.
const sessionAnnotation = "session"

var errNotLoggedIn = errors.New("not logged in, run `satchel login` first")

// RootOptions holds global flags for all commands.
type RootOptions struct {
	JSON bool
}

// NewRootCommand creates the root command for the satchel CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "satchel",
		Short:   "Satchel - a catalog for your on-chain artifacts",
		Version: constants.VERSION,
		Long: `Satchel collects the tokens held by your wallets into a single library,
where they can be sorted into catalogs and folders.

Configuration is read from ~/.config/satchel/config.yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := globals.Init(); err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			if requiresSession(cmd) && len(globals.API.Session) == 0 {
				return errNotLoggedIn
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print raw JSON responses")

	cmd.AddCommand(NewSignupCommand())
	cmd.AddCommand(NewLoginCommand())
	cmd.AddCommand(NewLogoutCommand())
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewWalletsCommand(opts))
	cmd.AddCommand(NewArtifactsCommand(opts))
	cmd.AddCommand(NewCatalogsCommand(opts))
	cmd.AddCommand(NewFoldersCommand(opts))

	return cmd
}

func requiresSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[sessionAnnotation]; ok {
			return true
		}
	}

	return false
}

// Execute runs the CLI, exiting with an error message if the command fails
func Execute() {
	cmd, err := NewRootCommand().ExecuteC()
	if errors.Is(err, errNotLoggedIn) {
		utils.HandleCLIError("authentication required", err)
	} else if utils.IsStatus(err, http.StatusUnauthorized) {
		utils.HandleCLIError("session expired", errNotLoggedIn)
	}

	utils.HandleCLIError(cmd.CommandPath(), err)
}
