package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Aryan-982/omegle-server/internal/app"
	"github.com/Aryan-982/omegle-server/internal/config"
	"github.com/Aryan-982/omegle-server/internal/log"
)

var (
	cfgFile string
	v       = viper.New()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "omegle-server",
		Short: "Interest-based pairing and signaling server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.yaml (default ./config.yaml)")
	root.Flags().String("addr", defaults.Addr, "HTTP listen address")
	root.Flags().Bool("dev-mode", defaults.DevMode, "run in development mode")
	root.Flags().String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().Duration("read-header-timeout", defaults.ReadHeaderTimeout, "HTTP read header timeout")
	root.Flags().Duration("shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")

	_ = v.BindPFlag("addr", root.Flags().Lookup("addr"))
	_ = v.BindPFlag("dev_mode", root.Flags().Lookup("dev-mode"))
	_ = v.BindPFlag("log_level", root.Flags().Lookup("log-level"))
	_ = v.BindPFlag("read_header_timeout", root.Flags().Lookup("read-header-timeout"))
	_ = v.BindPFlag("shutdown_timeout", root.Flags().Lookup("shutdown-timeout"))

	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("omegle-server dev")
			return nil
		},
	}
}

func runServe() error {
	bootstrapLogger := log.New("info")

	cfg, resolvedPath, err := config.Load(bootstrapLogger, cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// flags override the file/env-derived config where explicitly set
	flagOverrides := config.Config{}
	if v.IsSet("addr") {
		flagOverrides.Addr = v.GetString("addr")
	}
	if v.IsSet("log_level") {
		flagOverrides.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("read_header_timeout") {
		flagOverrides.ReadHeaderTimeout = v.GetDuration("read_header_timeout")
	}
	if v.IsSet("shutdown_timeout") {
		flagOverrides.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	}
	if v.GetBool("dev_mode") {
		flagOverrides.DevMode = true
	}
	cfg.UpdateFrom(flagOverrides)

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config_path", resolvedPath).Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
