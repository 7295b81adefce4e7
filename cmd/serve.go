package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubiojr/fiszki/pkg/api"
	"github.com/rubiojr/fiszki/pkg/config"
	"github.com/rubiojr/fiszki/pkg/dataset"
	"github.com/rubiojr/fiszki/pkg/storage"
	"github.com/urfave/cli/v3"
)

const (
	// sweepInterval is how often idle quiz sessions are dropped.
	sweepInterval    = 10 * time.Minute
	optimizeInterval = time.Hour
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API with live search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload datasets when the files change",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if addr := c.String("listen"); addr != "" {
				cfg.Listen = addr
			}
			return serve(ctx, cfg, !c.Bool("no-watch"))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, watch bool) error {
	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	apiServer := api.NewServer(corpus, store, api.Options{
		Debounce:   cfg.Debounce.Duration,
		SessionTTL: cfg.SessionTTL.Duration,
	})

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if watch {
		go func() {
			err := dataset.Watch(ctx, cfg.DataDir, dataset.DefaultSettle, func(context.Context) error {
				corpus, err := loadCorpus(cfg)
				if err != nil {
					return err
				}
				apiServer.SetCorpus(corpus)
				return nil
			})
			if err != nil {
				logger.Warnf("not watching datasets: %v", err)
			}
		}()
	}

	go backgroundMaintenance(ctx, apiServer, store)

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: api.CorsMiddleware(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	err = server.Shutdown(shutdownCtx)
	if cerr := store.WALCheckpoint(); cerr != nil {
		logger.Warnf("checkpointing database: %v", cerr)
	}
	return err
}

// backgroundMaintenance drops idle quiz sessions and optimizes the database until
// ctx is done.
func backgroundMaintenance(ctx context.Context, s *api.Server, store *storage.Store) {
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()
	optimize := time.NewTicker(optimizeInterval)
	defer optimize.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if n := s.Quiz().Sweep(); n > 0 {
				logger.Debugf("dropped %d idle quiz sessions", n)
			}
		case <-optimize.C:
			logger.Debugf("running database optimization")
			if err := store.Optimize(); err != nil {
				logger.Warnf("database optimization failed: %v", err)
			}
		}
	}
}
