package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/awaken-dev/awaken/internal/smoke"
	"github.com/awaken-dev/awaken/pkg/awaken"
	"github.com/awaken-dev/awaken/pkg/logger"
)

const (
	defaultSmokeRequests = 100
	defaultSmokeTimeout  = 5 * time.Second
)

var errSmokeFailed = errors.New("smoke check failed")

func newSmokeCmd() *cobra.Command {
	cfg := smoke.Config{Expected: awaken.IndexText()}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Verify a running server returns the index greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(level)); err != nil {
				return err
			}

			report, err := smoke.Run(cmd.Context(), cfg, logger.Named("smoke"))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d of %d requests did not return %q",
					errSmokeFailed, report.Requests-report.Succeeded, report.Requests, cfg.Expected)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.BaseURL, "url", "http://localhost:3000", "base URL of the server")
	fs.IntVar(&cfg.Requests, "requests", defaultSmokeRequests, "number of GET / requests")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "concurrent workers")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultSmokeTimeout, "per-request timeout")
	fs.StringVar(&cfg.Expected, "expect", cfg.Expected, "expected response body")
	fs.BoolVar(&verbose, "verbose", false, "log every failed request")
	return cmd
}
