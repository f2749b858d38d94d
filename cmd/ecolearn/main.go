package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecolearn/internal/config"
	"ecolearn/internal/explorer"
	"ecolearn/internal/ops"
	"ecolearn/internal/serverapp"
	"ecolearn/internal/telemetry"
	"ecolearn/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "ecolearn.yml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ecolearn",
		Short:         "EcoLearn: Environmental Explorer",
		Long:          "Environmental learning mini games: a water cycle simulator and a climate decision challenge.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the web explorer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log.Default())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			e := explorer.New(explorer.Options{ID: "terminal", Balance: cfg.Balance})
			err = tui.Run(cmd.Context(), e)
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "report <events.tar.gz>",
		Short: "Print gameplay stats from an exported event archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(cmd.OutOrStdout(), args[0])
		},
	})

	return root
}

func report(w io.Writer, archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := ops.ReadEventArchive(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", archivePath, err)
	}
	stats, err := telemetry.CalculateStats(events, time.Time{})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	serverapp.LogSecurityHints(logger, cfg)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on http://localhost%s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down (timeout %s)", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
