package cli

import (
	"fmt"

	"github.com/alexanderramin/fangen/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newMakeDBCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "make_db",
		Short: "Sign in and replace the local database with the event's current data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cfg.Password == "" && cfg.Email != "" && app.interactive() {
				prompt := app.PromptPassword
				if prompt == nil {
					prompt = promptPassword
				}
				password, err := prompt(cfg.Email)
				if err != nil {
					return err
				}
				cfg.Password = password
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bar := newProgressLine(out, app.terminal())
			rep, err := app.Sync.Sync(cmd.Context(), cfg.Email, cfg.Password, bar.Func())
			bar.Done()
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatSync(rep))
			return nil
		},
	}
}
