// Package lifecycle owns process shutdown: components register
// teardown callbacks as they come up, and a SIGINT/SIGTERM unwinds
// them in reverse order under a single deadline.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc tears one component down.
type ShutdownFunc func(ctx context.Context) error

type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	names []string
	funcs []ShutdownFunc
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register appends a teardown callback. Registration order is startup
// order; Shutdown unwinds in reverse.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.names = append(m.names, name)
	m.funcs = append(m.funcs, fn)
	m.mu.Unlock()
}

// Shutdown runs every registered teardown newest-first. A failing
// component does not stop the unwind; errors are joined and returned.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for i := len(m.funcs) - 1; i >= 0; i-- {
		if err := m.funcs[i](ctx); err != nil {
			m.logger.Error("teardown failed", zap.String("component", m.names[i]), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", m.names[i]))
	}
	return errors.Join(errs...)
}

// Listen arms the signal handler: the first SIGTERM or SIGINT invokes
// cancel, which the main goroutine observes to begin shutdown.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
