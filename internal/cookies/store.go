// internal/cookies/store.go
package cookies

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sentinel errors returned by Load. Callers use these to decide between
// "fall back to credential login" and "report a broken cookie file".
var (
	ErrNotFound      = errors.New("cookie file not found")
	ErrInvalidFormat = errors.New("cookie file is not a JSON list of cookie objects")
)

// Cookie mirrors the browser cookie export format: the four identity
// fields are required for a cookie to be injectable, the rest are
// optional attributes preserved round-trip.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Usable reports whether the cookie carries all four required fields.
func (c Cookie) Usable() bool {
	return c.Name != "" && c.Value != "" && c.Domain != "" && c.Path != ""
}

// MissingFields lists which of the required fields are absent.
func (c Cookie) MissingFields() []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Value == "" {
		missing = append(missing, "value")
	}
	if c.Domain == "" {
		missing = append(missing, "domain")
	}
	if c.Path == "" {
		missing = append(missing, "path")
	}
	return missing
}

// Load reads a cookie file. A missing file yields ErrNotFound; content
// that is not a JSON array of objects yields ErrInvalidFormat. An empty
// array is returned as-is, the caller decides how loudly to complain.
func Load(path string) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read cookie file %s: %w", path, err)
	}

	var list []Cookie
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return list, nil
}

// Save writes the full cookie set atomically: a temp file in the target
// directory is renamed over the destination so a crash mid-write never
// leaves a truncated session file behind.
func Save(path string, list []Cookie) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cookie directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cookies-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cookie file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cookie file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set cookie file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cookie file %s: %w", path, err)
	}
	return nil
}
