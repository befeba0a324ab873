// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/internal/config"
	"github.com/promoshot/promoshot-cli/internal/cookies"
)

// Session wraps the single browser tab used for a run and exposes the
// page primitives the chat flows are built on.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	mu       sync.Mutex
	isClosed bool
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(zap.String("session_id", id)),
		cfg:    cfg,
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Close releases the tab and cancels the session context. Idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// run executes chromedp actions under both the session lifetime and the
// caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the URL and waits for the document body, then gives the
// page a short settle period before the caller starts poking at it.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))

	navTimeout := s.cfg.Browser.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	err := s.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if wait := s.cfg.Browser.PostLoadWait; wait > 0 {
		if err := s.run(ctx, chromedp.Sleep(wait)); err != nil {
			return err
		}
	}
	return nil
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read page location: %w", err)
	}
	return url, nil
}

// WaitVisible blocks until the selector is visible or the timeout fires.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for '%s' failed: %w", selector, err)
	}
	return nil
}

// Exists probes for the selector without waiting on visibility.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	expr := fmt.Sprintf("document.querySelector(%q) !== null", selector)
	if err := s.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return false, fmt.Errorf("existence probe for '%s' failed: %w", selector, err)
	}
	return found, nil
}

// Click clicks the first visible element matching the CSS selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	clickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.run(clickCtx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click failed for selector '%s': %w", selector, err)
	}
	return nil
}

// ClickXPath clicks the first element matching the XPath expression.
func (s *Session) ClickXPath(ctx context.Context, xpath string) error {
	clickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.run(clickCtx, chromedp.Click(xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("click failed for xpath '%s': %w", xpath, err)
	}
	return nil
}

// Type sends the text to the element matching the selector.
func (s *Session) Type(ctx context.Context, selector, text string) error {
	typeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.run(typeCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("type failed for selector '%s': %w", selector, err)
	}
	return nil
}

// PressEnter sends the Enter key to the element, submitting composers
// and login forms alike.
func (s *Session) PressEnter(ctx context.Context, selector string) error {
	pressCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.run(pressCtx, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("enter press failed for selector '%s': %w", selector, err)
	}
	return nil
}

// BodyText returns the rendered text of the page body.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page text: %w", err)
	}
	return text, nil
}

// Evaluate runs a JavaScript expression and optionally unmarshals the
// result into res.
func (s *Session) Evaluate(ctx context.Context, expr string, res interface{}) error {
	return s.run(ctx, chromedp.Evaluate(expr, res))
}

// UploadFile waits for a file input and attaches the given file to it.
func (s *Session) UploadFile(ctx context.Context, selector, path string, timeout time.Duration) error {
	uploadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.run(uploadCtx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery),
	)
	if err != nil {
		if uploadCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("upload control '%s' did not appear within %s: %w", selector, timeout, err)
		}
		return fmt.Errorf("file upload via '%s' failed: %w", selector, err)
	}
	return nil
}

// SetCookies injects the cookie set into the browser before navigation.
func (s *Session) SetCookies(ctx context.Context, list []cookies.Cookie) error {
	params := cookies.ToCookieParams(list)
	if len(params) == 0 {
		return fmt.Errorf("no usable cookies to inject")
	}

	err := s.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return network.SetCookies(params).Do(c)
	}))
	if err != nil {
		return fmt.Errorf("failed to inject cookies: %w", err)
	}
	s.logger.Debug("Injected cookies.", zap.Int("count", len(params)))
	return nil
}

// Cookies captures the browser's full current cookie set.
func (s *Session) Cookies(ctx context.Context) ([]cookies.Cookie, error) {
	var live []*network.Cookie
	err := s.run(ctx, chromedp.ActionFunc(func(c context.Context) (err error) {
		live, err = storage.GetCookies().Do(c)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to capture cookies: %w", err)
	}
	return cookies.FromNetworkCookies(live), nil
}

// Screenshot writes a full-page screenshot to the given path. Used on
// failure paths only, so it works hard not to fail itself.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	shotCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var buf []byte
	if err := s.run(shotCtx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	s.logger.Info("Diagnostic screenshot saved.", zap.String("path", path))
	return nil
}
