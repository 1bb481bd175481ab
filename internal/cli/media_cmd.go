package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/fangen/internal/cli/formatter"
	"github.com/alexanderramin/fangen/internal/config"
	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/service"
	"github.com/spf13/cobra"
)

func newDownloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "download [dir]",
		Short: "Download uploaded files of approved submissions",
		Long:  "Download every file and image value of approved submissions into dir (default: files_folder).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := folder(args, 0, app.Config.FilesFolder, "files_folder")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bar := newProgressLine(out, app.terminal())
			rep, err := app.Media.Download(cmd.Context(), dir, bar.Func())
			bar.Done()
			if err != nil {
				return err
			}

			printMedia(out, rep, app.Config.DryRun, media.StatusFail, media.StatusSkip, media.StatusOK)
			return nil
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move [in] [out]",
		Short: "Copy downloaded files into a tree named by filename_template",
		Long: "Copy downloaded files from in (default: files_folder) to out (default: move_folder),\n" +
			"naming each copy with filename_template. With stage_mode the schedule order is used.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := folder(args, 0, app.Config.FilesFolder, "files_folder")
			if err != nil {
				return err
			}
			dst, err := folder(args, 1, app.Config.MoveFolder, "move_folder")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bar := newProgressLine(out, app.terminal())
			rep, err := app.Media.Move(cmd.Context(), in, dst, bar.Func())
			bar.Done()
			if err != nil {
				return err
			}

			printMedia(out, rep, app.Config.DryRun, media.StatusNotFound, media.StatusSkip, media.StatusOK)
			return nil
		},
	}
}

// folder returns the positional argument or the configured default.
func folder(args []string, i int, configured, key string) (string, error) {
	dir := argOr(args, i, configured)
	if dir == "" {
		return "", fmt.Errorf("%w: %s is not set and no directory was given", config.ErrInvalidConfig, key)
	}
	return dir, nil
}

func printMedia(w io.Writer, rep *service.MediaReport, dryRun bool, order ...media.Status) {
	for _, s := range order {
		for _, r := range rep.Results {
			if r.Status == s {
				fmt.Fprintln(w, formatter.FormatResult(r))
			}
		}
	}
	if dryRun {
		fmt.Fprintln(w, formatter.StyleYellow.Render("Dry run: no files were written"))
	}
	fmt.Fprint(w, formatter.FormatMediaSummary(rep, order...))
}
