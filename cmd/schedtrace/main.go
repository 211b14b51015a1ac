package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/schedtrace/internal/cli"
	"github.com/alexanderramin/schedtrace/internal/config"
	"github.com/alexanderramin/schedtrace/internal/db"
	"github.com/alexanderramin/schedtrace/internal/extractor"
	"github.com/alexanderramin/schedtrace/internal/repository"
	"github.com/alexanderramin/schedtrace/internal/service"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	v, err := config.New(configFileFlag(args))
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	sessionOpts := []session.Option{
		session.WithEditPolicy(cfg.EditPolicy),
		session.WithPlaybackSpeed(cfg.PlaybackSpeed),
		session.WithExtractorOptions(extractor.WithSentinelTaskName(cfg.SentinelTaskName)),
	}

	traces := service.NewTraceService(sessionOpts, logger, observer)
	games := service.NewGameService(
		repository.NewSQLiteGameRepo(database),
		db.NewSQLiteUnitOfWork(database),
		traces,
		observer,
	)

	app := &cli.App{
		Traces:  traces,
		Catalog: service.NewCatalogService(observer),
		Games:   games,
		Config:  cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	root := cli.NewRootCmd(app)
	root.SetArgs(args)
	return root.Execute()
}

// configFileFlag picks --config out of args before cobra runs, since the
// services built from the config must exist when the command tree is made.
func configFileFlag(args []string) string {
	fs := pflag.NewFlagSet("schedtrace", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String(cli.ConfigFlag, "", "")
	_ = fs.Parse(args)
	return *path
}
