package main

import (
	"context"
	"fmt"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/logging"
	"github.com/nhle/taskboard/internal/rest"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/tasks"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logCloser.Close()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	authn, err := auth.New(cfg.Auth, credential.Get)
	if err != nil {
		st.Close()
		return fmt.Errorf("configuring auth: %w", err)
	}

	svc := tasks.NewService(st, tasks.WithLogger(log))
	app := rest.New(svc, authn, log)

	listenErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).
			WithField("store", cfg.Store.Driver).
			WithField("auth", cfg.Auth.Mode).
			Info("taskboard API listening")
		if err := app.Listen(cfg.Server.Addr); err != nil {
			listenErr <- err
		}
	}()

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSec) * time.Second
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		timeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info("shutting down API server")
				if err := app.ShutdownWithContext(ctx); err != nil {
					return err
				}
				return st.Close()
			},
		},
	)

	select {
	case err := <-listenErr:
		st.Close()
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	case code := <-wait:
		log.WithField("exit_code", code).Info("taskboard API stopped")
		if code != 0 {
			return exitCodeError(code)
		}
		return nil
	}
}
