package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"menud/internal/broker"
	"menud/internal/handler"
	"menud/internal/hub"
	"menud/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout bounds graceful shutdown
const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		addr  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Runs the menu item API until SIGINT or SIGTERM.

Routes:
  GET    /item        all items grouped by section
  GET    /item/{id}   one item
  PUT    /item/{id}   create an item
  PATCH  /item/{id}   update some fields of an item
  DELETE /item/{id}   delete an item
  GET    /export      dump items as json or yaml
  GET    /events      server-sent stream of item changes
  GET    /healthz     store reachability`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if reset {
				a.cfg.Database.ResetOnStart = true
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate the store before serving")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := a.logger
	logger.Info("Starting menud", zap.String("config", a.cfg.Summary()))

	repo, err := a.openStore(ctx, a.cfg.Database.ResetOnStart)
	if err != nil {
		return err
	}
	defer repo.Close()

	eventBus := service.NewEventBus()

	// Background workers stop before the HTTP server so open event
	// streams end and Shutdown does not wait on them.
	workers, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	sseHub := hub.New(logger)
	sseHub.Subscribe(eventBus)
	go sseHub.Run(workers)

	if url := a.cfg.Events.AMQPURL; url != "" {
		pub, err := broker.Dial(url, a.cfg.Events.Exchange, logger)
		if err != nil {
			logger.Warn("Event broker unavailable, continuing without it", zap.Error(err))
		} else {
			defer pub.Close()
			events := make(chan service.Event, 256)
			eventBus.Subscribe(events)
			go pub.Run(workers, events)
			logger.Info("Publishing events", zap.String("exchange", a.cfg.Events.Exchange))
		}
	}

	menuSvc := service.NewMenuService(repo, eventBus, a.cfg.Menu.Sections, logger)

	mux := http.NewServeMux()
	handler.NewMenuHandler(menuSvc, logger).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.HandleFunc("GET /healthz", handler.Health(repo))

	server := &http.Server{
		Addr: a.cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover(logger),
			handler.CORS,
			handler.RequestID,
			handler.Logger(logger),
		),
		ReadTimeout:  a.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: a.cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  a.cfg.Server.IdleTimeout.Duration(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("Server stopped")
	return nil
}
