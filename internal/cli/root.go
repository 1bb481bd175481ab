package cli

import (
	"github.com/alexanderramin/fangen/internal/config"
	"github.com/alexanderramin/fangen/internal/service"
	"github.com/spf13/cobra"
)

// App holds the config and service interfaces used by CLI commands.
type App struct {
	Config config.Config

	Sync   service.SyncService
	Plan   service.PlanService
	Export service.ExportService
	Media  service.MediaService
	Status service.StatusService

	// Load reads the config file named by --config, applies the flag
	// overrides and wires the services. It runs before every command; nil
	// leaves the App as constructed.
	Load func(path string, overrides *config.Overrides) error

	// IsInteractive reports whether stdin is a terminal that can be prompted.
	IsInteractive func() bool
	// IsTerminal reports whether stdout is a terminal, enabling progress bars.
	IsTerminal func() bool
	// PromptPassword asks for the account password; nil uses a huh form.
	PromptPassword func(email string) (string, error)
}

// NewRootCmd creates the top-level "fangen" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string
	overrides := &config.Overrides{}

	root := &cobra.Command{
		Use:           "fangen",
		Short:         "Convention data sync and schedule builder for cosplay2 events",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Load == nil {
				return nil
			}
			return app.Load(configPath, overrides)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the TOML or YAML config file")
	overrides.Register(root.PersistentFlags())

	root.AddCommand(
		newMakeDBCmd(app),
		newMakePlanCmd(app),
		newMakeDataCmd(app),
		newDownloadCmd(app),
		newMoveCmd(app),
		newStatusCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) terminal() bool {
	return a.IsTerminal != nil && a.IsTerminal()
}
