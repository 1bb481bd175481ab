package cli

import (
	"fmt"

	"github.com/alexanderramin/fangen/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// Default workbook paths.
const (
	DefaultPlanPath = "./excel.xlsx"
	DefaultDataPath = "./data.xlsx"
)

func newMakePlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "make_plan [path]",
		Short: "Fill the schedule workbook from its header templates",
		Long: "Fill every sheet of the schedule workbook with one row per schedule node.\n" +
			"Row 1 holds the templates; the workbook is created with a default sheet when missing.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOr(args, 0, DefaultPlanPath)

			out := cmd.OutOrStdout()
			bar := newProgressLine(out, app.terminal())
			rep, err := app.Plan.MakePlan(cmd.Context(), path, bar.Func())
			bar.Done()
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatDocument(rep))
			return nil
		},
	}
}

func newMakeDataCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "make_data [path]",
		Short: "Write the data workbook: a summary sheet and one sheet per topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argOr(args, 0, DefaultDataPath)

			out := cmd.OutOrStdout()
			bar := newProgressLine(out, app.terminal())
			rep, err := app.Export.MakeData(cmd.Context(), path, bar.Func())
			bar.Done()
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatDocument(rep))
			return nil
		},
	}
}

// argOr returns args[i], or def when it is missing or empty.
func argOr(args []string, i int, def string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return def
}
