package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awaken-dev/awaken/pkg/logger"
)

const maxBodyBytes = 1 << 16

// Run issues cfg.Requests GET / calls across cfg.Workers goroutines. It returns
// an error only when the run itself cannot proceed; per-request failures are
// counted in the report.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	defer client.CloseIdleConnections()
	url := strings.TrimRight(cfg.BaseURL, "/") + "/"

	var succeeded, mismatched, failed int64
	jobs := make(chan int)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Requests; i++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				body, status, err := fetch(gctx, client, url)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					if log != nil {
						log.Debug(gctx, "smoke request failed", logger.Int("request", i), logger.Error(err))
					}
				case status != http.StatusOK || body != cfg.Expected:
					atomic.AddInt64(&mismatched, 1)
					if log != nil {
						log.Warn(gctx, "unexpected response",
							logger.Int("request", i),
							logger.Int("status", status),
							logger.String("body", body),
						)
					}
				default:
					atomic.AddInt64(&succeeded, 1)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// Workers may have drained every job before ctx was cancelled.
		err = ctx.Err()
	}
	report := Report{
		Requests:   succeeded + mismatched + failed,
		Succeeded:  succeeded,
		Mismatched: mismatched,
		Failed:     failed,
		Duration:   time.Since(start),
	}
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrAborted, err)
	}

	if log != nil {
		log.Info(ctx, "smoke run finished",
			logger.Int64("requests", report.Requests),
			logger.Int64("succeeded", report.Succeeded),
			logger.Int64("mismatched", report.Mismatched),
			logger.Int64("failed", report.Failed),
			logger.Duration("duration", report.Duration),
		)
	}
	return report, nil
}

func fetch(ctx context.Context, client *http.Client, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(data), resp.StatusCode, nil
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Requests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
