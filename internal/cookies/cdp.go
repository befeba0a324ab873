// internal/cookies/cdp.go
package cookies

import (
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
)

// ToCookieParams converts a loaded cookie list into CDP set-cookie
// parameters. Cookies missing required fields are skipped; injecting a
// partial cookie would only confuse the site.
func ToCookieParams(list []Cookie) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(list))
	for _, c := range list {
		if !c.Usable() {
			continue
		}
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &exp
		}
		if c.SameSite != "" {
			p.SameSite = network.CookieSameSite(c.SameSite)
		}
		params = append(params, p)
	}
	return params
}

// FromNetworkCookies converts the browser's live cookie set back into
// the serializable format, so a fresh login can be persisted for reuse.
func FromNetworkCookies(live []*network.Cookie) []Cookie {
	list := make([]Cookie, 0, len(live))
	for _, c := range live {
		if c == nil {
			continue
		}
		list = append(list, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return list
}
