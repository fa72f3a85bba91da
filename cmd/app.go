package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audiovault/internal/blobstore"
	"audiovault/internal/config"
	"audiovault/internal/handlers"
	"audiovault/internal/logger"
	"audiovault/internal/repository"
	"audiovault/internal/repository/db"
	"audiovault/internal/server"
	"audiovault/internal/service"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// app is the wired dependency graph shared by every command.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	services *service.Service
}

// openApp loads config, opens the database and blob root, and wires services.
func openApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)

	conn, dialect, err := db.InitDB(db.Options{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("init %s database: %w", cfg.DB.Driver, err)
	}

	blobs, err := blobstore.New(cfg.Storage.UploadRoot)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	services := service.NewService(repository.NewRepository(conn, dialect), blobs, service.Options{
		Secret:        cfg.Auth.Secret,
		TokenTTL:      cfg.Auth.TokenTTL,
		VerifyContent: cfg.Storage.VerifyContent,
		SweepGrace:    cfg.Sweeper.Grace,
	}, log)

	return &app{cfg: cfg, log: log, db: conn, services: services}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("db_close_failed", "err", err)
	}
	_ = a.log.Sync()
}

func serve(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if path := a.cfg.Bootstrap.UsersFile; path != "" {
		a.seedIfPresent(ctx, path)
	}

	apiHandler := handlers.NewHandler(a.services, a.log, handlers.Options{
		MaxUploadBytes: a.cfg.Storage.MaxUploadBytes,
		LoginRate:      rate.Limit(a.cfg.Auth.LoginRate),
		LoginBurst:     a.cfg.Auth.LoginBurst,
	})

	// context for background goroutines
	bg, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.services.Sweeper.Run(bg, a.cfg.Sweeper.Interval)

	srv := &server.Server{}
	errc := make(chan error, 1)
	go func() {
		a.log.Infow("http_server_starting", "port", a.cfg.Port, "db_driver", a.cfg.DB.Driver)
		errc <- srv.Run(a.cfg.Port, apiHandler.InitRoutes(), server.Timeouts{
			ReadHeader: a.cfg.HTTP.ReadHeaderTimeout,
			Write:      a.cfg.HTTP.WriteTimeout,
			Idle:       a.cfg.HTTP.IdleTimeout,
		})
	}()

	return waitForShutdown(cancel, srv, errc, a.log)
}

// seedIfPresent applies the bootstrap file on startup; a missing file is not fatal.
func (a *app) seedIfPresent(ctx context.Context, path string) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		a.log.Warnw("bootstrap_users_file_missing", "path", path)
		return
	}
	n, err := a.services.Seed(ctx, path)
	if err != nil {
		a.log.Errorw("bootstrap_seed_failed", "path", path, "err", err)
		return
	}
	a.log.Infow("bootstrap_seed_done", "path", path, "created", n)
}

// waitForShutdown blocks until a termination signal or a server failure, then stops gracefully.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errc <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		cancel()
		return err
	case sig := <-quit:
		log.Infow("shutting_down", "signal", sig.String())
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errc
}

func seed(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	path := cmd.String("file")
	if path == "" {
		path = a.cfg.Bootstrap.UsersFile
	}
	if path == "" {
		return errors.New("no users file: pass --file or set bootstrap.users_file")
	}
	n, err := a.services.Seed(ctx, path)
	if err != nil {
		return err
	}
	a.log.Infow("bootstrap_seed_done", "path", path, "created", n)
	return nil
}

func sweep(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.services.SweepOnce(ctx)
	a.log.Infow("blob_sweep_done",
		"scanned", report.ScannedFiles,
		"removed_files", report.RemovedFiles,
		"removed_folders", report.RemovedFolders,
		"errors", report.Errors,
	)
	return err
}
