// internal/chat/login.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/api/schemas"
	"github.com/promoshot/promoshot-cli/internal/config"
	"github.com/promoshot/promoshot-cli/internal/cookies"
)

// Establisher gets the browser into an authenticated, chat-ready state.
// It prefers restoring a cookie-based session and only falls back to
// interactive credential login when that fails; a fresh login always
// persists its cookie set so the next run can skip this entirely.
type Establisher struct {
	page   Page
	cfg    config.ChatConfig
	logger *zap.Logger
}

// NewEstablisher wires an establisher to a page.
func NewEstablisher(page Page, cfg config.ChatConfig, logger *zap.Logger) *Establisher {
	return &Establisher{
		page:   page,
		cfg:    cfg,
		logger: logger.Named("login"),
	}
}

// loginStrategy is one way of locating the login entry point. The
// cascade is evaluated lazily in priority order, first success wins.
type loginStrategy struct {
	name string
	run  func(ctx context.Context) error
}

// Establish runs the session state machine: cookie restoration first,
// credential login second. Fatal transitions capture a diagnostic
// screenshot before their error propagates.
func (e *Establisher) Establish(ctx context.Context, creds schemas.Credentials, cookieFile string) error {
	injected := e.injectCookies(ctx, cookieFile)

	if err := e.page.Navigate(ctx, e.cfg.BaseURL); err != nil {
		return fmt.Errorf("failed to open chat site: %w", err)
	}

	if injected {
		if err := e.waitForReady(ctx, e.cfg.LoginTimeout); err == nil {
			e.logger.Info("Session restored from cookies.")
			return nil
		}
		e.logger.Warn("Cookie session did not produce a ready chat UI, falling back to credential login.")
	}

	if !creds.Complete() {
		return ErrMissingCredentials
	}

	if err := e.credentialLogin(ctx, creds); err != nil {
		return err
	}

	e.persistSession(ctx, cookieFile)
	return nil
}

// injectCookies loads and injects the stored session, reporting whether
// anything usable made it into the browser. Every failure here is
// non-fatal: the credential path is the fallback.
func (e *Establisher) injectCookies(ctx context.Context, cookieFile string) bool {
	if cookieFile == "" {
		return false
	}

	list, err := cookies.Load(cookieFile)
	if err != nil {
		e.logger.Warn("Could not load cookie file.", zap.String("path", cookieFile), zap.Error(err))
		return false
	}
	if len(list) == 0 {
		e.logger.Warn("Cookie file is empty.", zap.String("path", cookieFile))
		return false
	}

	report := cookies.Validate(list)
	e.logger.Info("Loaded cookie file.",
		zap.Int("total", report.Total),
		zap.Int("valid", report.Valid),
		zap.Int("site_cookies", report.DomainCookies),
	)
	if !report.HasSessionCookies() {
		e.logger.Warn("No known session cookies in the file; restoration may fail.")
	}
	if report.Valid == 0 {
		return false
	}

	if err := e.page.SetCookies(ctx, list); err != nil {
		e.logger.Warn("Cookie injection failed.", zap.Error(err))
		return false
	}
	return true
}

// credentialLogin walks the interactive login flow.
func (e *Establisher) credentialLogin(ctx context.Context, creds schemas.Credentials) error {
	if signal := DetectChallenge(ctx, e.page, e.logger); signal != SignalNone {
		return abortOnChallenge(ctx, e.page, e.logger, signal, e.diagnosticPath("challenge.png"))
	}
	if err := e.checkErrorRedirect(ctx); err != nil {
		return err
	}

	if err := e.openLoginForm(ctx); err != nil {
		return err
	}

	// Email step.
	if err := e.fillField(ctx, emailSelector, emailSelectorAlt, creds.Email); err != nil {
		e.captureDiagnostic(ctx, "login_email.png")
		return fmt.Errorf("%w: email field never appeared: %v", ErrLoginControlNotFound, err)
	}
	if err := e.page.Click(ctx, submitSelector); err != nil {
		e.captureDiagnostic(ctx, "login_email.png")
		return fmt.Errorf("failed to submit email: %w", err)
	}

	// Password step.
	if err := e.fillField(ctx, passwordSelector, passwordSelectorAlt, creds.Password); err != nil {
		e.captureDiagnostic(ctx, "login_password.png")
		return fmt.Errorf("password field never appeared: %w", err)
	}
	if err := e.page.Click(ctx, submitSelector); err != nil {
		e.captureDiagnostic(ctx, "login_password.png")
		return fmt.Errorf("failed to submit password: %w", err)
	}

	if err := e.waitForReady(ctx, e.cfg.LoginTimeout); err != nil {
		e.captureDiagnostic(ctx, "login_timeout.png")
		return fmt.Errorf("%w: %v", ErrLoginTimeout, err)
	}

	e.logger.Info("Credential login succeeded.")
	return nil
}

// openLoginForm locates and activates the login entry point using the
// strategy cascade, falling back to direct navigation to the login URL
// when every click strategy misses.
func (e *Establisher) openLoginForm(ctx context.Context) error {
	strategies := []loginStrategy{
		{name: "exact_text", run: func(c context.Context) error {
			return e.page.ClickXPath(c, loginButtonXPath)
		}},
		{name: "testid", run: func(c context.Context) error {
			return e.page.Click(c, loginButtonQuery)
		}},
		{name: "scan_buttons", run: func(c context.Context) error {
			var clicked bool
			if err := e.page.Evaluate(c, loginScanScript, &clicked); err != nil {
				return err
			}
			if !clicked {
				return errors.New("no login-like control on page")
			}
			return nil
		}},
	}

	for _, strategy := range strategies {
		strategyCtx, cancel := context.WithTimeout(ctx, e.cfg.ProbeTimeout)
		err := strategy.run(strategyCtx)
		cancel()
		if err == nil {
			e.logger.Debug("Login control activated.", zap.String("strategy", strategy.name))
			return nil
		}
		e.logger.Debug("Login strategy missed.", zap.String("strategy", strategy.name), zap.Error(err))
	}

	// Click cascade exhausted; go straight to the login URL.
	e.logger.Info("Falling back to direct login URL.", zap.String("url", e.cfg.LoginURL))
	if err := e.page.Navigate(ctx, e.cfg.LoginURL); err != nil {
		e.captureDiagnostic(ctx, "login_control.png")
		return fmt.Errorf("%w: direct login navigation failed: %v", ErrLoginControlNotFound, err)
	}
	if signal := DetectChallenge(ctx, e.page, e.logger); signal != SignalNone {
		return abortOnChallenge(ctx, e.page, e.logger, signal, e.diagnosticPath("challenge.png"))
	}
	return e.checkErrorRedirect(ctx)
}

// fillField waits for the primary selector, then the alternate, and
// types into whichever appears first.
func (e *Establisher) fillField(ctx context.Context, primary, alternate, value string) error {
	selector := primary
	if err := e.page.WaitVisible(ctx, primary, 10*time.Second); err != nil {
		if altErr := e.page.WaitVisible(ctx, alternate, e.cfg.ProbeTimeout); altErr != nil {
			return err
		}
		selector = alternate
	}
	return e.page.Type(ctx, selector, value)
}

// waitForReady blocks until the chat composer is usable.
func (e *Establisher) waitForReady(ctx context.Context, timeout time.Duration) error {
	if err := e.page.WaitVisible(ctx, readySelector, timeout); err == nil {
		return nil
	}
	return e.page.WaitVisible(ctx, readySelectorLegacy, e.cfg.ProbeTimeout)
}

// checkErrorRedirect aborts when the site bounced us to an auth error page.
func (e *Establisher) checkErrorRedirect(ctx context.Context) error {
	location, err := e.page.Location(ctx)
	if err != nil {
		return nil
	}
	if strings.Contains(location, "/auth/error") || strings.Contains(location, "error=") {
		e.captureDiagnostic(ctx, "error_redirect.png")
		return fmt.Errorf("%w: %s", ErrErrorRedirect, location)
	}
	return nil
}

// persistSession captures the live cookie set and writes it back so
// future runs skip credential login. Best effort: a failed save costs
// the next run a login, not this run its result.
func (e *Establisher) persistSession(ctx context.Context, cookieFile string) {
	if cookieFile == "" {
		return
	}
	list, err := e.page.Cookies(ctx)
	if err != nil {
		e.logger.Warn("Could not capture session cookies.", zap.Error(err))
		return
	}
	if err := cookies.Save(cookieFile, list); err != nil {
		e.logger.Warn("Could not persist session cookies.", zap.String("path", cookieFile), zap.Error(err))
		return
	}
	e.logger.Info("Session cookies persisted for future runs.",
		zap.String("path", cookieFile), zap.Int("count", len(list)))
}

func (e *Establisher) diagnosticPath(name string) string {
	return filepath.Join(e.cfg.DiagnosticsDir, name)
}

func (e *Establisher) captureDiagnostic(ctx context.Context, name string) {
	if err := e.page.Screenshot(ctx, e.diagnosticPath(name)); err != nil {
		e.logger.Warn("Could not save diagnostic screenshot.", zap.String("name", name), zap.Error(err))
	}
}
