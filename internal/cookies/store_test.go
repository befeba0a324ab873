// File: internal/cookies/store_test.go
package cookies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid Export", func(t *testing.T) {
		path := writeFile(t, dir, "cookies.json", `[
			{"name": "__Secure-next-auth.session-token", "value": "tok", "domain": ".openai.com", "path": "/", "expires": 1893456000, "secure": true, "sameSite": "Lax"},
			{"name": "puid", "value": "abc", "domain": "chat.openai.com", "path": "/"}
		]`)

		list, err := Load(path)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "__Secure-next-auth.session-token", list[0].Name)
		assert.Equal(t, ".openai.com", list[0].Domain)
		assert.True(t, list[0].Secure)
		assert.Equal(t, "Lax", list[0].SameSite)
		assert.True(t, list[1].Usable())
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Not JSON", func(t *testing.T) {
		path := writeFile(t, dir, "garbage.json", "not json at all")
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("JSON Object Instead Of List", func(t *testing.T) {
		path := writeFile(t, dir, "object.json", `{"name": "x"}`)
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Empty List", func(t *testing.T) {
		path := writeFile(t, dir, "empty.json", `[]`)
		list, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cookies.json")

	original := []Cookie{
		{Name: "puid", Value: "abc", Domain: ".openai.com", Path: "/", Expires: 1893456000, HTTPOnly: true},
	}
	require.NoError(t, Save(path, original))

	// The session file must not be world readable.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMissingFields(t *testing.T) {
	c := Cookie{Name: "puid", Path: "/"}
	assert.False(t, c.Usable())
	assert.Equal(t, []string{"value", "domain"}, c.MissingFields())

	full := Cookie{Name: "a", Value: "b", Domain: "c", Path: "/"}
	assert.True(t, full.Usable())
	assert.Empty(t, full.MissingFields())
}

func TestValidate(t *testing.T) {
	t.Run("Mixed List", func(t *testing.T) {
		list := []Cookie{
			{Name: "__Secure-next-auth.session-token", Value: "tok", Domain: ".openai.com", Path: "/"},
			{Name: "tracking", Value: "x", Domain: "ads.example.com", Path: "/"},
			{Name: "broken", Domain: ".openai.com"},
			{Name: "puid", Value: "abc", Domain: "chat.openai.com", Path: "/"},
		}

		report := Validate(list)
		assert.Equal(t, 4, report.Total)
		assert.Equal(t, 3, report.Valid)
		assert.Equal(t, 2, report.DomainCookies)
		assert.Equal(t, 2, report.SessionCookies)
		require.Len(t, report.Defects, 1)
		assert.Equal(t, 2, report.Defects[0].Index)
		assert.Equal(t, "broken", report.Defects[0].Name)
		assert.Equal(t, []string{"value", "path"}, report.Defects[0].MissingFields)
		assert.True(t, report.HasDomainCookies())
		assert.True(t, report.HasSessionCookies())
	})

	t.Run("Defects Never Abort The Scan", func(t *testing.T) {
		list := []Cookie{
			{},
			{Name: "puid", Value: "abc", Domain: ".openai.com", Path: "/"},
		}
		report := Validate(list)
		assert.Equal(t, 1, report.Valid)
		assert.Equal(t, 1, report.SessionCookies)
	})

	t.Run("Empty List", func(t *testing.T) {
		report := Validate(nil)
		assert.Zero(t, report.Total)
		assert.False(t, report.HasDomainCookies())
		assert.False(t, report.HasSessionCookies())
	})
}
