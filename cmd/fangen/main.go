package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/alexanderramin/fangen/internal/cli"
	"github.com/alexanderramin/fangen/internal/config"
	"github.com/alexanderramin/fangen/internal/cosplay2"
	"github.com/alexanderramin/fangen/internal/db"
	"github.com/alexanderramin/fangen/internal/logging"
	"github.com/alexanderramin/fangen/internal/media"
	"github.com/alexanderramin/fangen/internal/plan"
	"github.com/alexanderramin/fangen/internal/render"
	"github.com/alexanderramin/fangen/internal/repository"
	"github.com/alexanderramin/fangen/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	app := &cli.App{}
	app.Load = func(path string, overrides *config.Overrides) error {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := overrides.Apply(&cfg); err != nil {
			return err
		}

		logger, logCloser, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		closers = append(closers, logCloser)

		// Open database
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, database)

		// Wire repositories
		topicRepo := repository.NewSQLiteTopicRepo(database)
		submissionRepo := repository.NewSQLiteSubmissionRepo(database)
		valueRepo := repository.NewSQLiteValueRepo(database)
		scheduleRepo := repository.NewSQLiteScheduleRepo(database)
		runRepo := repository.NewSQLiteSyncRunRepo(database)

		uow := db.NewSQLiteUnitOfWork(database)
		observer := service.NewLogUseCaseObserver(logger)

		client, err := cosplay2.NewClient(cosplay2.Config{
			BaseURL:   cfg.BaseURL(),
			Timeout:   cfg.Timeout(),
			UserAgent: cosplay2.DefaultUserAgent,
		}, cosplay2.NewFileCookieStore(cfg.CookiePath), logger)
		if err != nil {
			return err
		}

		style := render.FileLinks
		if cfg.FileLabels {
			style = render.FileLabels
		}
		builder := plan.NewBuilder(render.New(cfg.UploadHost, style), cfg.EventName)
		docOpts := service.DocumentOptions{DictPath: cfg.DictPath, MaxWidth: cfg.MaxCellLength}

		allowed := media.NewExts(cfg.AllowedExts)
		downloader := media.NewDownloader(&http.Client{}, cfg.Timeout(), allowed, cfg.DryRun, logger)
		downloader.Extractor = media.YTDLP{Executable: cfg.YTDLPPath}
		mover := &media.Mover{
			Template:       cfg.FilenameTemplate,
			MaxTitleLength: cfg.MaxTitleLength,
			Allowed:        allowed,
			DryRun:         cfg.DryRun,
		}

		app.Config = cfg
		app.Sync = service.NewSyncService(client, database, uow, logger, observer)
		app.Plan = service.NewPlanService(scheduleRepo, builder, docOpts, logger, observer)
		app.Export = service.NewExportService(topicRepo, scheduleRepo, builder, docOpts, logger, observer)
		app.Media = service.NewMediaService(submissionRepo, scheduleRepo, builder, downloader, mover,
			service.MediaOptions{SkipFields: cfg.SkipFields, StageMode: cfg.StageMode, DictPath: cfg.DictPath}, logger, observer)
		app.Status = service.NewStatusService(topicRepo, submissionRepo, valueRepo, scheduleRepo, runRepo)
		return nil
	}

	// Detect terminals for the password prompt and progress bars.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.IsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
