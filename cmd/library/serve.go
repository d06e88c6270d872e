package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rahulmaharshi/manage-library-app/library/httpapi"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var addr string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the borrowing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.HTTPAddr = addr
			}

			a, err := openApp(cmd.Context(), cfg, os.Stdout)
			if err != nil {
				return err
			}

			shutdownCtx := context.Background()
			defer func() {
				if closeErr := a.close(shutdownCtx); closeErr != nil {
					a.obs.Logger.Error("closing resources failed", "error", closeErr)
				}
			}()

			if migrate {
				if err := a.store.CreateSchema(cmd.Context()); err != nil {
					return fmt.Errorf("creating schema: %w", err)
				}
			}

			return serve(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LIBRARY_HTTP_ADDR)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the schema before serving")

	return cmd
}

func serve(ctx context.Context, a *app) error {
	handlers, err := a.handlers()
	if err != nil {
		return err
	}

	api := httpapi.New(handlers,
		httpapi.WithLogger(a.obs.Logger),
		httpapi.WithContextualLogger(a.obs.ContextualLogger),
	)

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		a.obs.Logger.Info("http server listening", "addr", a.cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigChan:
		a.obs.Logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	a.obs.Logger.Info("http server stopped")

	return nil
}
