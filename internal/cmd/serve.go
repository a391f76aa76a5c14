package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zaba505/qsharp-bridge-go/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the teleportation API",
	Long: `Serve the JSON HTTP API for measuring, entangling and teleporting qubits.

The server keeps running when the Q# definitions fail to load, requests then
fail until the evaluator recovers.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// NotifyContext cancels ctx on the first SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, cfg, logger, err := openBridge(ctx)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Closing evaluator...")
		_ = b.Close()
	}()

	if !b.Available() {
		logger.Warn("⚠ Q# operations not loaded, requests will fail until the evaluator recovers")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: server.New(b, server.WithLogger(logger), server.WithBackendName(backendName(cfg))),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.WithField("address", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return err
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped cleanly")
	return nil
}
