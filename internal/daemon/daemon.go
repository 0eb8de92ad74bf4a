package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"assetbridge/internal/api"
	"assetbridge/internal/bridge"
	"assetbridge/internal/clipboard"
	"assetbridge/internal/config"
	"assetbridge/internal/logging"
	"assetbridge/internal/pathresolve"
	"assetbridge/internal/preflight"
	"assetbridge/internal/transfer"
)

// ErrAlreadyRunning reports that another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("another assetbridge daemon instance is already running")

// Options customizes daemon construction.
type Options struct {
	Version string
	// Clipboard replaces the writer selected from cfg.Clipboard.Backend.
	Clipboard clipboard.Writer
}

// Daemon owns the bridge server and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	version string

	clipboard clipboard.Writer
	resolver  *pathresolve.Resolver
	executor  *transfer.Executor

	lockPath string
	lock     *flock.Flock

	mu        sync.Mutex
	server    *bridge.Server
	cancel    context.CancelFunc
	startedAt time.Time
	running   atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	writer := opts.Clipboard
	if writer == nil {
		var err error
		writer, err = clipboard.New(cfg.Clipboard.Backend, clipboard.Options{Timeout: cfg.ClipboardTimeout()})
		if err != nil {
			return nil, fmt.Errorf("configure clipboard: %w", err)
		}
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		clipboard: writer,
		resolver:  pathresolve.New(cfg.Transfer.SourceRoot),
		executor: transfer.NewExecutor(transfer.Options{
			Clipboard:    writer,
			Logger:       logger,
			VerifyCopies: cfg.Transfer.VerifyCopies,
		}),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins serving the bridge.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	server, err := bridge.New(bridge.Options{
		Host:               d.cfg.Server.Host,
		Port:               d.cfg.Server.Port,
		LoopbackOnly:       d.cfg.Server.LoopbackOnly,
		CORSOrigin:         d.cfg.Server.CORSOrigin,
		MaxBodyBytes:       d.cfg.Server.MaxBodyBytes,
		MaxPaths:           d.cfg.Server.MaxPaths,
		DefaultDestination: d.cfg.Transfer.DefaultDestination,
		Version:            d.version,
		Resolver:           d.resolver,
		Executor:           d.executor,
		Status:             d.Status,
		Logger:             d.logger,
	})
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("build bridge: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start bridge: %w", err)
	}

	d.server = server
	d.cancel = cancel
	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("assetbridge daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", server.Addr()),
		logging.String("clipboard_backend", d.clipboard.Name()),
	)
	return nil
}

// Stop shuts the bridge down and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running.Load() {
		d.mu.Unlock()
		return
	}
	server, cancel := d.server, d.cancel
	d.server, d.cancel = nil, nil
	d.running.Store(false)
	d.mu.Unlock()

	// In-flight /status requests take d.mu, so shut down outside it.
	if cancel != nil {
		cancel()
	}
	if server != nil {
		server.Stop()
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if the next start fails"),
			logging.String(logging.FieldImpact, "a restart may report the daemon as already running"),
		)
	}
	d.logger.Info("assetbridge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether the bridge is serving.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Addr returns the bridge listener address, or "" when stopped.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	server := d.server
	d.mu.Unlock()
	if server == nil {
		return ""
	}
	return server.Addr()
}

// LockPath returns the path to the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) api.StatusResponse {
	d.mu.Lock()
	server := d.server
	startedAt := d.startedAt
	d.mu.Unlock()

	status := api.StatusResponse{
		Running:            d.running.Load(),
		PID:                os.Getpid(),
		LockPath:           d.lockPath,
		ClipboardBackend:   d.clipboard.Name(),
		DefaultDestination: d.cfg.Transfer.DefaultDestination,
		Version:            d.version,
		Dependencies:       api.FromDependencies(preflight.CheckClipboardDeps(d.cfg)),
	}
	if server != nil {
		status.Address = server.Addr()
		status.ActiveTransfers = server.ActiveTransfers()
	}
	if !startedAt.IsZero() {
		status.StartedAt = api.FormatTime(startedAt)
	}
	return status
}
