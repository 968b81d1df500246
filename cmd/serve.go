package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	app "github.com/awaken-dev/awaken/internal/app"
	"github.com/awaken-dev/awaken/internal/config"
	"github.com/awaken-dev/awaken/pkg/logger"
)

type serveOptions struct {
	configFile string
	addr       string
	logLevel   string
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&o.configFile, "config", "", "YAML config file (overrides $"+config.EnvConfigFile+")")
	fs.StringVar(&o.addr, "addr", "", "listen address, e.g. :3000")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

// loadConfig layers defaults, file, env and finally explicit flags.
func (o *serveOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), config.WithFile(o.configFile))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = o.addr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		// Logger isn't configured yet.
		writeStderr(cmd.ErrOrStderr(), "failed to load config: "+err.Error())
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.OutOrStdout())); err != nil {
		writeStderr(cmd.ErrOrStderr(), "failed to initialize logging: "+err.Error())
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			writeStderr(cmd.ErrOrStderr(), "failed to sync logger: "+err.Error())
		}
	}()
	log := logger.Get()

	// Fall back to info on invalid input.
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithAddr(cfg.Addr),
		app.WithGinMode(cfg.GinMode),
		app.WithTimeouts(cfg.ReadTimeout(), cfg.WriteTimeout(), cfg.IdleTimeout(), cfg.ReadHeaderTimeout()),
		app.WithShutdownTimeout(cfg.ShutdownTimeout()),
		app.WithMetrics(cfg.MetricsEnabled, cfg.MetricsInterval()),
	)

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func writeStderr(w io.Writer, msg string) {
	_, _ = io.WriteString(w, msg+"\n")
}
