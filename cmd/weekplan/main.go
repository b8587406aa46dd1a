package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/weekplan/internal/apiclient"
	"github.com/alexanderramin/weekplan/internal/auth"
	"github.com/alexanderramin/weekplan/internal/cli"
	"github.com/alexanderramin/weekplan/internal/config"
	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/planner"
	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/alexanderramin/weekplan/internal/server"
	"github.com/alexanderramin/weekplan/internal/service"
	"github.com/alexanderramin/weekplan/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Local database holds the guest snapshot and the auth token.
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	blobs := repository.NewSQLiteBlobStore(database)

	var logger *slog.Logger
	if cfg.LogSync {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	// Backend client, only when an API URL is configured.
	var client *apiclient.Client
	var sessionClient auth.Client
	if !cfg.Guest() {
		var observer apiclient.Observer = apiclient.NoopObserver{}
		if logger != nil {
			observer = apiclient.NewLogObserver(logger)
		}
		client = apiclient.New(apiclient.Config{
			BaseURL:    cfg.API.URL,
			Timeout:    cfg.APITimeout(),
			MaxRetries: cfg.API.MaxRetries,
			RPS:        cfg.API.RPS,
		}, observer)
		sessionClient = client
	}

	session := auth.NewSession(blobs, sessionClient)
	ctx := context.Background()
	if err := session.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Signed out: %v\n", err)
	}

	notifier := cli.NewNotifier(os.Stderr)
	opts := []planner.Option{
		planner.WithAuth(session),
		planner.WithNotifier(notifier),
		planner.WithMaxInFlight(int64(cfg.MaxInFlight)),
	}
	if client != nil {
		opts = append(opts, planner.WithRemote(client))
	}
	if logger != nil {
		opts = append(opts, planner.WithObserver(planner.NewLogSyncObserver(os.Stderr)))
	}
	store := planner.NewStore(snapshot.NewAdapter(blobs, logger), opts...)
	defer store.Close()

	app := &cli.App{
		Planner:    store,
		Account:    session,
		ServerAddr: cfg.Server.Addr,
		Serve: func(ctx context.Context, addr string) error {
			return serve(ctx, cfg, addr)
		},
	}
	if client != nil {
		app.Stats = client
	}

	// Detect interactive terminal for the board and forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// serve wires the backend over its own database and runs it until ctx ends.
func serve(ctx context.Context, cfg config.Config, addr string) error {
	database, err := db.OpenDB(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("opening server database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	observer := service.NewSlogUseCaseObserver(logger)

	uow := db.NewSQLiteUnitOfWork(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	weeks := repository.NewSQLiteWeekRepo(database)
	authSvc := service.NewAuthService(
		repository.NewSQLiteUserRepo(database),
		repository.NewSQLiteAuthSessionRepo(database),
		service.AuthConfig{SessionTTL: cfg.SessionTTL()},
		observer,
	)

	if n, err := authSvc.PurgeExpiredSessions(ctx); err != nil {
		logger.Warn("purging expired sessions", "error", err)
	} else if n > 0 {
		logger.Info("purged expired sessions", "count", n)
	}

	srv := server.New(server.Options{
		Tasks:  service.NewTaskService(tasks, weeks, uow, observer),
		Weeks:  service.NewWeekService(weeks, tasks, uow, observer),
		Auth:   authSvc,
		Logger: logger,
		Now:    time.Now,
	})
	return srv.ListenAndServe(ctx, addr)
}
