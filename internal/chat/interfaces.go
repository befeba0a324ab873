// internal/chat/interfaces.go
package chat

import (
	"context"
	"time"

	"github.com/promoshot/promoshot-cli/internal/cookies"
)

// Page is the narrow browser surface the chat flows are built on.
// *browser.Session implements it; tests substitute a fake so the login
// state machine and the generation driver run without Chrome.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Exists(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	ClickXPath(ctx context.Context, xpath string) error
	Type(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context, selector string) error
	BodyText(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, expr string, res interface{}) error
	UploadFile(ctx context.Context, selector, path string, timeout time.Duration) error
	SetCookies(ctx context.Context, list []cookies.Cookie) error
	Cookies(ctx context.Context) ([]cookies.Cookie, error)
	Screenshot(ctx context.Context, path string) error
}
