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

	"moviehub/internal/app/catalog"
	"moviehub/internal/app/db"
	"moviehub/internal/app/docstore"
	"moviehub/internal/app/notify"
	"moviehub/internal/app/store"
	"moviehub/internal/configs"
	"moviehub/internal/handler"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/auth/appwrite"
	"moviehub/internal/pkg/auth/jwt"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/worker"
)

const shutdownTimeout = 10 * time.Second

func createServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		Long: `Start the API server. It runs until interrupted (Ctrl+C) or terminated,
then closes every WebSocket connection and drains background work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.LoadEnvFile(*envFile); err != nil {
				return err
			}

			cfg, err := configs.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *configs.AppConfig) error {
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("auth_provider", cfg.AuthProvider).
		Str("store_driver", cfg.StoreDriver).
		Int("dispatch_workers", cfg.DispatchWorkers).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	validator, err := newValidator(cfg)
	if err != nil {
		_ = st.Close(context.Background())
		return err
	}

	registry := notify.NewRegistry()
	dispatcher := worker.NewPool("dispatch", cfg.DispatchWorkers, cfg.DispatchQueueSize)

	deps := &handler.AppDeps{
		Config:     cfg,
		Registry:   registry,
		Notifier:   notify.NewNotifier(registry),
		Origins:    notify.NewOriginPolicy(cfg.AllowedOrigins),
		Dispatcher: dispatcher,
		Validator:  validator,
		Catalog:    catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, nil),
		Store:      st,
	}

	routerCtx, cancelRouter := context.WithCancel(context.Background())
	defer cancelRouter()

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(routerCtx, deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logx.Info("MovieHub server starting", "addr", "http://localhost"+serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logx.Info("Received shutdown signal. Starting graceful shutdown...")
	case serveErr = <-errChan:
		logx.Error(serveErr, "Server failed")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	if err := registry.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Connections did not close in time")
	}

	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Background jobs did not finish in time")
	}

	if err := st.Close(shutdownCtx); err != nil {
		logx.Error(err, "Failed to close store")
	}

	logx.Info("Server gracefully stopped.")
	return serveErr
}

func openStore(ctx context.Context, cfg *configs.AppConfig) (store.Store, error) {
	switch cfg.StoreDriver {
	case configs.StoreDriverMongo:
		return docstore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)

	case configs.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return db.NewStore(pool), nil

	case configs.StoreDriverMemory:
		logx.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func newValidator(cfg *configs.AppConfig) (auth.Validator, error) {
	switch cfg.AuthProvider {
	case configs.AuthProviderAppwrite:
		return appwrite.NewValidator(cfg.AppwriteEndpoint, cfg.AppwriteProjectID, nil), nil
	case configs.AuthProviderJWT:
		return jwt.NewValidator(cfg.JWTSecret), nil
	}

	return nil, fmt.Errorf("unsupported auth provider %q", cfg.AuthProvider)
}
