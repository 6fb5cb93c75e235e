package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/seed"
	"bookshelf/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookshelf",
		Short:        "In-memory bookshelf catalog HTTP service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var seedCount int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles()
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlags(cmd, &cfg)

			logger := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger, seedCount)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address (overrides APP_ADDR)")
	flags.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.String("log-format", "", "text or json (overrides LOG_FORMAT)")
	flags.String("filter-mode", "", "all or last (overrides LIST_FILTER_MODE)")
	flags.Bool("recompute-finished", true, "recompute finished on update (overrides RECOMPUTE_FINISHED)")
	flags.IntVar(&seedCount, "seed", 0, "number of generated sample books to add at startup")
	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if v, _ := flags.GetString("filter-mode"); v != "" {
		cfg.ListFilterMode = v
	}
	if flags.Changed("recompute-finished") {
		cfg.RecomputeFinished, _ = flags.GetBool("recompute-finished")
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, seedCount int) error {
	filterMode, err := book.ParseFilterMode(cfg.ListFilterMode)
	if err != nil {
		return err
	}

	bookService := book.NewService(book.NewMemoryRepo(), book.Options{
		FilterMode:        filterMode,
		RecomputeFinished: cfg.RecomputeFinished,
		Logger:            logger,
	})

	if seedCount > 0 {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		ids, err := seed.Books(ctx, bookService, rng, seedCount)
		if err != nil {
			return err
		}
		logger.Info("seeded books", "count", len(ids))
	}

	bookHandler := book.NewHTTPHandler(bookService, logger)
	return server.New(cfg, bookHandler, logger).Run(ctx)
}
