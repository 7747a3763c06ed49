package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recircle-app/recircle/internal/api"
	"github.com/recircle-app/recircle/internal/app/accounts"
	"github.com/recircle-app/recircle/internal/app/gamify"
	"github.com/recircle-app/recircle/internal/health"
	"github.com/recircle-app/recircle/internal/infra/sqlite"
)

// Daemon is the ReCircle runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Accounts *accounts.Service
	Gamify   *gamify.Service
	Server   *api.Server
	Health   *health.Checker

	cancel context.CancelFunc
}

// New creates a Daemon with configuration loaded from disk.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Database.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	acc := accounts.NewService(db)
	svc := gamify.NewService(db, db)

	srv := api.NewServer(acc, svc, db)
	srv.SetCORSOrigins(cfg.Server.CORSOrigins)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, cfg.Database.Dir)
	srv.SetHealth(checker)

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Accounts: acc,
		Gamify:   svc,
		Server:   srv,
		Health:   checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Printf("[daemon] shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return d.Close()
}

// Close releases daemon resources.
func (d *Daemon) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return d.DB.Close()
}
