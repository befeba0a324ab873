// File: internal/cookies/cdp_test.go
package cookies

import (
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCookieParams(t *testing.T) {
	expiry := float64(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	list := []Cookie{
		{Name: "puid", Value: "abc", Domain: ".openai.com", Path: "/", Expires: expiry, Secure: true, SameSite: "Lax"},
		{Name: "incomplete", Domain: ".openai.com"},
		{Name: "session", Value: "tok", Domain: ".openai.com", Path: "/"},
	}

	params := ToCookieParams(list)
	require.Len(t, params, 2, "incomplete cookies must be skipped, not injected")

	first := params[0]
	assert.Equal(t, "puid", first.Name)
	assert.Equal(t, network.CookieSameSiteLax, first.SameSite)
	require.NotNil(t, first.Expires)
	assert.Equal(t, int64(expiry), first.Expires.Time().Unix())

	// Session cookies carry no expiry at all.
	assert.Nil(t, params[1].Expires)
}

func TestFromNetworkCookiesRoundTrip(t *testing.T) {
	live := []*network.Cookie{
		{Name: "puid", Value: "abc", Domain: ".openai.com", Path: "/", Expires: 123456, HTTPOnly: true, Secure: true, SameSite: network.CookieSameSiteNone},
		nil,
	}

	list := FromNetworkCookies(live)
	require.Len(t, list, 1)
	assert.Equal(t, Cookie{
		Name:     "puid",
		Value:    "abc",
		Domain:   ".openai.com",
		Path:     "/",
		Expires:  123456,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	}, list[0])
	assert.True(t, list[0].Usable())
}
