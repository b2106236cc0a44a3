package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"tubeexpert/internal/app"
	"tubeexpert/internal/web"
	"tubeexpert/pkg/config"
)

var (
	servePort string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser UI",
	Long:  `Serve the single-session browser UI until interrupted.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default from config or PORT)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the UI in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if err := cfg.RequireAPIKey(); err != nil {
		slog.Warn("Generation will fail until a key is configured", "error", err)
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := service.Close(); err != nil {
			slog.Error("Failed to close service", "error", err)
		}
	}()

	server, err := web.NewServer(web.Options{
		Controller:     service.Controller(),
		Defaults:       service.Defaults(),
		Store:          service.Store(),
		RequestTimeout: cfg.Lifecycle.RequestTimeout,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "provider", cfg.Provider)
		serverErrors <- srv.ListenAndServe()
	}()

	if serveOpen {
		if err := browser.OpenURL("http://localhost:" + cfg.Server.Port); err != nil {
			slog.Warn("Failed to open browser", "error", err)
		}
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-shutdown:
		slog.Info("Starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed, forcing close", "error", err)
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		slog.Info("Server stopped cleanly")
	}
	return nil
}
