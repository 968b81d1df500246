// Package service owns the HTTP server lifecycle for the awaken API.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/awaken-dev/awaken/internal/adapters/http/api"
	"github.com/awaken-dev/awaken/internal/adapters/http/swagger"
	"github.com/awaken-dev/awaken/internal/buildinfo"
	"github.com/awaken-dev/awaken/pkg/logger"
	"github.com/awaken-dev/awaken/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Service serves the API until its context is cancelled.
type Service struct {
	mu sync.RWMutex

	addr              string
	ginMode           string
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
	metricsEnabled    bool
	metricsInterval   time.Duration
	text              api.TextProvider

	engine     *gin.Engine
	httpServer *http.Server
	listenAddr net.Addr
	ready      chan struct{}
	startedAt  time.Time
	running    bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAddr sets the listen address, e.g. ":3000" or "127.0.0.1:0".
func WithAddr(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithTimeouts sets the http.Server read, write, idle and read-header timeouts.
// Non-positive values keep the defaults.
func WithTimeouts(read, write, idle, readHeader time.Duration) Option {
	return func(s *Service) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if idle > 0 {
			s.idleTimeout = idle
		}
		if readHeader > 0 {
			s.readHeaderTimeout = readHeader
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithGinMode sets the gin mode: debug, release or test.
func WithGinMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.ginMode = mode
		}
	}
}

// WithMetrics toggles metric recording and sets the runtime sampling interval.
func WithMetrics(enabled bool, interval time.Duration) Option {
	return func(s *Service) {
		s.metricsEnabled = enabled
		if interval > 0 {
			s.metricsInterval = interval
		}
	}
}

// WithTextProvider overrides the index text source.
func WithTextProvider(text api.TextProvider) Option {
	return func(s *Service) {
		if text != nil {
			s.text = text
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service and wires its routes. Nothing listens until Run.
func New(opts ...Option) *Service {
	s := &Service{
		addr:              ":3000",
		ginMode:           gin.ReleaseMode,
		readTimeout:       10 * time.Second,
		writeTimeout:      10 * time.Second,
		idleTimeout:       60 * time.Second,
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   30 * time.Second,
		metricsEnabled:    true,
		metricsInterval:   metrics.RefreshInterval(),
		ready:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	gin.SetMode(s.ginMode)

	apiServer := api.NewServer(s.text, s, s.logger.Named("http"))
	s.engine = apiServer.NewEngine()
	apiServer.Register(context.Background(), s.engine)
	swagger.Register(context.Background(), s.engine)

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		ReadHeaderTimeout: s.readHeaderTimeout,
	}
	return s
}

// Handler exposes the routed engine for in-process use.
func (s *Service) Handler() http.Handler {
	return s.engine
}

// Ready is closed once Run has bound its listener. It is never closed when
// Run fails before listening, so callers should also watch Run's result.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listen address, or the configured one before Run.
func (s *Service) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listenAddr != nil {
		return s.listenAddr.String()
	}
	return s.addr
}

// Run binds the listener, serves requests and samples runtime metrics until ctx
// is cancelled, then shuts down within the shutdown timeout. A Service runs once.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running || !s.startedAt.IsZero() {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s: %w", ErrListen, s.addr, err)
	}
	s.listenAddr = ln.Addr()
	s.startedAt = time.Now()
	s.running = true
	s.mu.Unlock()

	metrics.SetEnabled(s.metricsEnabled)
	metrics.SetBuildInfo(buildinfo.Version, buildinfo.Commit)

	s.logger.Info(ctx, "starting HTTP server",
		logger.String("addr", ln.Addr().String()),
		logger.String("version", buildinfo.Version),
		logger.String("gin_mode", s.ginMode),
	)
	close(s.ready)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrServe, err)
		}
		return nil
	})

	if s.metricsEnabled {
		g.Go(func() error {
			s.runSystemMetrics(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: %w", ErrShutdown, err)
		}
		return nil
	})

	err = g.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "server stopped with error", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "server stopped")
	return nil
}

// runSystemMetrics samples runtime gauges until ctx is done.
func (s *Service) runSystemMetrics(ctx context.Context) {
	updateSystemMetrics()

	ticker := time.NewTicker(s.metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// Stats returns build and runtime information for GET /stats.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"version":    buildinfo.Version,
		"commit":     buildinfo.Commit,
		"running":    s.running,
		"goroutines": runtime.NumGoroutine(),
	}
	if !s.startedAt.IsZero() {
		stats["started_at"] = s.startedAt.UTC().Format(time.RFC3339)
		stats["uptime_seconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}
