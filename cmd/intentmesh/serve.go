package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/intentmesh/internal/bootstrap"
	httptransport "github.com/hupe1980/intentmesh/transport/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing API over HTTP",
		Long: `Start the HTTP API (POST /v1/ask, conversation history and reset, /healthz).
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, c)
		},
	}

	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	return serveCmd
}

func runServe(cmd *cobra.Command, c *cli) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		c.cfg.HTTP.Addr = addr
	}

	logger := c.logger(cmd.ErrOrStderr())
	svc, err := bootstrap.Build(c.cfg, c.bootstrapOptions(logger)...)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(svc, func(o *httptransport.Options) {
		o.GinMode = c.cfg.HTTP.GinMode
		o.HideDebug = c.cfg.HTTP.HideDebug
		o.Logger = logger
	})
	server := &http.Server{
		Addr:              c.cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server.start", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("server.shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
