// internal/browser/allocator.go
package browser

import (
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/promoshot/promoshot-cli/internal/config"
)

// DefaultAllocatorOptions builds the Chrome launch options for a run.
// The flag set keeps the browser stable in containers and avoids the
// most common automation tells that trip the chat site's defenses.
func DefaultAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.Flag("window-size",
			fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight)))
	}

	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(trimFlag(arg), true))
	}

	return opts
}

func trimFlag(arg string) string {
	for len(arg) > 0 && arg[0] == '-' {
		arg = arg[1:]
	}
	return arg
}
