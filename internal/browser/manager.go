// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/internal/config"
)

// Manager owns the browser process for a run: one allocator, one
// browser, one page. Start and Shutdown bracket every run so the
// process is released on all exit paths.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu      sync.Mutex
	session *Session
	started bool
}

// NewManager creates a browser manager. Launch is deferred to Start.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger.Named("browser_manager"),
		cfg:    cfg,
	}
}

// Start launches Chrome and opens the single page session for the run.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil, fmt.Errorf("browser manager already started")
	}

	m.logger.Info("Launching browser.", zap.Bool("headless", m.cfg.Browser.Headless))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, DefaultAllocatorOptions(m.cfg.Browser)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so launch failures surface
	// here rather than on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	m.allocCtx = allocCtx
	m.allocCancel = allocCancel
	m.started = true

	session := newSession(browserCtx, browserCancel, m.cfg, m.logger)
	m.session = session

	m.logger.Info("Browser launched.", zap.String("session_id", session.ID()))
	return session, nil
}

// Shutdown closes the session and tears down the browser process. Safe
// to call on every exit path, including after a failed Start.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}
	m.started = false

	m.logger.Info("Shutting down browser.")
	if m.session != nil {
		if err := m.session.Close(ctx); err != nil {
			m.logger.Warn("Error closing session during shutdown.", zap.Error(err))
		}
		m.session = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
	}
	return nil
}

// CombineContext creates a context canceled when either parent is
// canceled, so page operations respect both the session lifetime and the
// caller's deadline.
func CombineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-secondaryCtx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}
