// Package artifact persists generated images from whatever form the
// page surfaced them in, inline data URLs or remote asset URLs, and
// reports the outcome as a structured result.
package artifact

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/api/schemas"
)

// Persister writes generated images into the results directory.
type Persister struct {
	resultsDir string
	client     *http.Client
	logger     *zap.Logger
}

// NewPersister builds a persister rooted at resultsDir. A nil client
// gets a sane default with a download timeout.
func NewPersister(resultsDir string, client *http.Client, logger *zap.Logger) *Persister {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Persister{
		resultsDir: resultsDir,
		client:     client,
		logger:     logger.Named("artifact"),
	}
}

// Persist materializes the image behind source onto disk and returns a
// result describing where it landed. Unrecognized sources produce a
// failure result, not an error: by this point the run itself succeeded.
func (p *Persister) Persist(ctx context.Context, source string) *schemas.GenerationResult {
	filename := fmt.Sprintf("generated_%d.png", time.Now().Unix())
	destination := filepath.Join(p.resultsDir, filename)

	switch {
	case strings.HasPrefix(source, "data:image"):
		if err := p.writeDataURL(source, destination); err != nil {
			p.logger.Error("Could not decode inline image.", zap.Error(err))
			return schemas.Failure(fmt.Sprintf("failed to decode inline image: %v", err))
		}
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if err := p.download(ctx, source, destination); err != nil {
			p.logger.Error("Could not download image.", zap.String("url", source), zap.Error(err))
			return schemas.Failure(fmt.Sprintf("failed to download image: %v", err))
		}
	default:
		p.logger.Error("Unrecognized image source.", zap.String("source", truncate(source, 64)))
		return schemas.Failure("generated image source was not a data URL or http(s) URL")
	}

	p.logger.Info("Image saved.", zap.String("path", destination))
	return &schemas.GenerationResult{
		Success:   true,
		ImagePath: destination,
		ImageURL:  urlOnly(source),
		Filename:  filename,
	}
}

// writeDataURL decodes a base64 data URL payload to destination.
func (p *Persister) writeDataURL(source, destination string) error {
	_, payload, found := strings.Cut(source, ",")
	if !found {
		return fmt.Errorf("data URL has no payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("invalid base64 payload: %w", err)
	}
	if err := p.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(destination, data, 0o644)
}

// download streams the remote asset to destination.
func (p *Persister) download(ctx context.Context, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := p.ensureDir(); err != nil {
		return err
	}
	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (p *Persister) ensureDir() error {
	return os.MkdirAll(p.resultsDir, 0o755)
}

// urlOnly reports the source when it is an addressable URL; inline data
// payloads are too large to echo back in results.
func urlOnly(source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
