package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/alumni-jobs/internal/config"
	"github.com/honeycarbs/alumni-jobs/internal/mcp"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
	"github.com/honeycarbs/alumni-jobs/pkg/shutdown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "alumni-jobs",
		Short:         "Alumni job marketplace: REST API and MCP tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func loadConfig() (config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel), nil
}

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API, the MCP endpoint and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			if migrate {
				if err := mcp.Migrate(ctx, cfg, logger); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			res, err := mcp.InitializeResources(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize resources: %w", err)
			}

			srv, err := mcp.NewServer(logger, cfg, res)
			if err != nil {
				_ = res.Close(context.Background())
				return err
			}

			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				_ = shutdown.Graceful(ctx,
					[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
					cfg.ShutdownTimeout,
					logger,
					srv,
					shutdown.Func(res.Close),
				)
			}()

			logger.Info("server initialized and starting", "backend", res.StorageLabel, "tools", srv.Tools())

			if err := srv.Run(); err != nil {
				logger.Error("server exited with error", "err", err)
				_ = res.Close(context.Background())
				return err
			}
			<-stopped
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Bootstrap the storage schema before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables, constraints and indexes of the configured backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := mcp.Migrate(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			logger.Info("migration complete", "backend", cfg.Backend)
			return nil
		},
	}
}
