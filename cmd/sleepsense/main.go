package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/api"
	"github.com/yourname/sleepsense/internal/auth"
	"github.com/yourname/sleepsense/internal/config"
	"github.com/yourname/sleepsense/internal/service"
	"github.com/yourname/sleepsense/internal/sleepstats"
	"github.com/yourname/sleepsense/internal/storage"
)

type CLI struct {
	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the HTTP API."`
	Derive DeriveCmd `cmd:"" help:"Print dashboard JSON for a file of daily inputs."`
}

type ServeCmd struct {
	Addr    string `help:"Listen address. Overrides HTTP_ADDR."`
	Backend string `help:"Storage backend (file, postgres, sqlite). Overrides STORAGE_BACKEND."`
}

// resolveConfig applies the flag overrides to the environment config and
// validates the result.
func (s *ServeCmd) resolveConfig() (*config.Config, error) {
	cfg := *config.Load()
	if s.Addr != "" {
		cfg.HTTPAddr = s.Addr
	}
	if s.Backend != "" {
		cfg.StorageBackend = s.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *ServeCmd) Run() error {
	cfg, err := s.resolveConfig()
	if err != nil {
		return err
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, err := storage.NewRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer repo.Close()

	router := api.NewRouter(api.NewServer(logger, repo), auth.NewProvider(cfg, logger), cfg)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server listening on %s (env=%s, storage=%s)", cfg.HTTPAddr, cfg.Env, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

type DeriveCmd struct {
	Input string `required:"" type:"existingfile" help:"JSON array of daily inputs."`
}

func (d *DeriveCmd) Run() error {
	f, err := os.Open(d.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	return derive(f, os.Stdout)
}

// derive works offline: no config, store or auth is touched.
func derive(r io.Reader, w io.Writer) error {
	var inputs []internal.DailyInput
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return fmt.Errorf("decode inputs: %w", err)
	}
	metrics := sleepstats.DeriveAll(inputs)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(service.Dashboard{Metrics: metrics, Stats: sleepstats.Aggregate(metrics)})
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sleepsense"),
		kong.Description("Sleep diary API and metrics deriver."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
