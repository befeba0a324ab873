// File: internal/chat/fake_page_test.go
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/promoshot/promoshot-cli/internal/cookies"
)

type typedEntry struct {
	selector string
	text     string
}

// fakePage is an in-memory Page. Selector visibility and existence are
// plain maps, so tests script the DOM state a flow will observe; every
// interaction is recorded for assertions.
type fakePage struct {
	mu sync.Mutex

	visible  map[string]bool
	existing map[string]bool
	bodyText string
	location string

	liveCookies []cookies.Cookie

	navigateErr func(url string) error
	clickErr    func(selector string) error
	xpathErr    func(xpath string) error
	uploadErr   error
	evalHook    func(expr string, res interface{}) error
	onClick     func(selector string)

	visited          []string
	typed            []typedEntry
	clicked          []string
	xpathClicked     []string
	entersPressed    []string
	uploads          []string
	screenshots      []string
	setCookieBatches [][]cookies.Cookie
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:  map[string]bool{},
		existing: map[string]bool{},
		location: "https://chat.openai.com/",
	}
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited = append(f.visited, url)
	if f.navigateErr != nil {
		return f.navigateErr(url)
	}
	return nil
}

func (f *fakePage) Location(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location, nil
}

func (f *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visible[selector] {
		return nil
	}
	return fmt.Errorf("selector %q never became visible", selector)
}

func (f *fakePage) Exists(ctx context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[selector], nil
}

func (f *fakePage) Click(ctx context.Context, selector string) error {
	f.mu.Lock()
	hook := f.onClick
	if f.clickErr != nil {
		if err := f.clickErr(selector); err != nil {
			f.mu.Unlock()
			return err
		}
	}
	f.clicked = append(f.clicked, selector)
	f.mu.Unlock()
	if hook != nil {
		hook(selector)
	}
	return nil
}

func (f *fakePage) ClickXPath(ctx context.Context, xpath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.xpathErr != nil {
		if err := f.xpathErr(xpath); err != nil {
			return err
		}
	}
	f.xpathClicked = append(f.xpathClicked, xpath)
	return nil
}

func (f *fakePage) Type(ctx context.Context, selector, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.visible[selector] {
		return fmt.Errorf("selector %q not visible for typing", selector)
	}
	f.typed = append(f.typed, typedEntry{selector: selector, text: text})
	return nil
}

func (f *fakePage) PressEnter(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entersPressed = append(f.entersPressed, selector)
	return nil
}

func (f *fakePage) BodyText(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodyText, nil
}

func (f *fakePage) Evaluate(ctx context.Context, expr string, res interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.evalHook != nil {
		return f.evalHook(expr, res)
	}
	return nil
}

func (f *fakePage) UploadFile(ctx context.Context, selector, path string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakePage) SetCookies(ctx context.Context, list []cookies.Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCookieBatches = append(f.setCookieBatches, list)
	return nil
}

func (f *fakePage) Cookies(ctx context.Context) ([]cookies.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveCookies, nil
}

func (f *fakePage) Screenshot(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screenshots = append(f.screenshots, path)
	return nil
}

func (f *fakePage) setVisible(selector string, v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible[selector] = v
}

func (f *fakePage) typedEntries() []typedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]typedEntry(nil), f.typed...)
}
