// Package main provides the codeecho CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aashka19/CodeEcho/internal/app"
	"github.com/Aashka19/CodeEcho/internal/config"
	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/internal/server"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

var version = "0.1.0"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the codeecho CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "codeecho",
		Short:        "Collect and analyze developer feedback",
		Long:         "CodeEcho pulls developer feedback from GitHub issues and Stack Overflow questions and analyzes it with an AI backend or a keyword heuristic.",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("codeecho version {{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newRecentCmd())

	return rootCmd
}

// loadApp reads configuration and wires the application
func loadApp() (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.New(cfg)
}

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			application.LogStartupInfo()

			cfg := application.Config
			srv := server.New(cfg.Port, application.Aggregator, cfg.AnalysesViewLimit, cfg.HTTPWriteTimeout)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Info("signal received, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return <-errCh
		},
	}
}

// newAnalyzeCmd creates the analyze subcommand.
func newAnalyzeCmd() *cobra.Command {
	var analysisType string

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Analyze a piece of feedback text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			result, err := application.Aggregator.AnalyzeText(cmd.Context(), args[0], types.AnalysisType(analysisType))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&analysisType, "type", "t", "general", "Analysis type (bug, feature, sentiment, general)")

	return cmd
}

// newIngestCmd creates the ingest subcommand.
func newIngestCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch raw feedback from one source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			result, err := application.Aggregator.Ingest(cmd.Context(), source)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "github", "Source to ingest (github or stackoverflow)")

	return cmd
}

// newRecentCmd creates the recent subcommand.
func newRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show heuristic insights over the newest feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), application.Aggregator.Recent(cmd.Context(), limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of items to return")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
