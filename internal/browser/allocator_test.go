// File: internal/browser/allocator_test.go
package browser

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/promoshot/promoshot-cli/internal/chat"
	"github.com/promoshot/promoshot-cli/internal/config"
)

// The chat flows only ever see a Session through the Page surface.
var _ chat.Page = (*Session)(nil)

func TestDefaultAllocatorOptions(t *testing.T) {
	t.Run("Includes Baseline Flags", func(t *testing.T) {
		cfg := config.NewDefaultConfig().Browser
		opts := DefaultAllocatorOptions(cfg)

		// The defaults plus our hardening flags, at minimum.
		assert.Greater(t, len(opts), len(chromedp.DefaultExecAllocatorOptions))
	})

	t.Run("Window Size Only When Configured", func(t *testing.T) {
		cfg := config.BrowserConfig{Headless: true}
		withoutSize := len(DefaultAllocatorOptions(cfg))

		cfg.WindowWidth = 1280
		cfg.WindowHeight = 900
		withSize := len(DefaultAllocatorOptions(cfg))
		assert.Equal(t, withoutSize+1, withSize)
	})

	t.Run("Extra Args Are Appended", func(t *testing.T) {
		cfg := config.BrowserConfig{Args: []string{"--disable-extensions", "mute-audio"}}
		withArgs := len(DefaultAllocatorOptions(cfg))
		cfg.Args = nil
		withoutArgs := len(DefaultAllocatorOptions(cfg))
		assert.Equal(t, withoutArgs+2, withArgs)
	})
}

func TestTrimFlag(t *testing.T) {
	assert.Equal(t, "disable-extensions", trimFlag("--disable-extensions"))
	assert.Equal(t, "mute-audio", trimFlag("-mute-audio"))
	assert.Equal(t, "mute-audio", trimFlag("mute-audio"))
	assert.Equal(t, "", trimFlag("--"))
}
