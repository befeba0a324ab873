// internal/chat/driver.go
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promoshot/promoshot-cli/internal/config"
)

// Candidate is the extracted reference to a generated image: either an
// inline data URL or a remote URL, exactly as the DOM reported it.
type Candidate struct {
	Source string
}

// Driver submits an image+prompt to an authenticated chat session and
// extracts the newest generated image. A timed-out generation is a soft
// miss (nil candidate, nil error); only "cannot even start the task"
// conditions return errors.
type Driver struct {
	page   Page
	cfg    config.ChatConfig
	logger *zap.Logger
}

// NewDriver wires a generation driver to a page.
func NewDriver(page Page, cfg config.ChatConfig, logger *zap.Logger) *Driver {
	return &Driver{
		page:   page,
		cfg:    cfg,
		logger: logger.Named("driver"),
	}
}

// GenerateImage runs the UI-driven generation flow.
func (d *Driver) GenerateImage(ctx context.Context, imagePath, prompt string) (*Candidate, error) {
	d.startFreshConversation(ctx)
	d.selectModel(ctx)

	// Attach the source image. Without it there is no task, so a missing
	// upload control is a hard stop for this run.
	if err := d.page.UploadFile(ctx, uploadSelector, imagePath, d.cfg.UploadTimeout); err != nil {
		return nil, fmt.Errorf("could not attach source image: %w", err)
	}

	if err := d.page.WaitVisible(ctx, uploadedImageSelector, d.cfg.UploadAckTimeout); err != nil {
		d.logger.Warn("Upload acknowledgment never appeared.", zap.Error(err))
		return nil, nil
	}

	if err := d.submitPrompt(ctx, prompt); err != nil {
		return nil, fmt.Errorf("could not submit prompt: %w", err)
	}

	d.logger.Info("Waiting for image generation.",
		zap.Duration("timeout", d.cfg.GenerationTimeout))
	source, ok := d.awaitGeneratedImage(ctx)
	if !ok {
		d.logger.Warn("Timed out waiting for image generation.")
		return nil, nil
	}

	d.logger.Info("Generated image located.", zap.String("source_kind", sourceKind(source)))
	return &Candidate{Source: source}, nil
}

// startFreshConversation clicks the new-chat control when present.
// Absence means we are already in a fresh conversation.
func (d *Driver) startFreshConversation(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, d.cfg.ProbeTimeout)
	defer cancel()

	if err := d.page.ClickXPath(probeCtx, newChatXPath); err != nil {
		d.logger.Debug("New chat control not found, assuming fresh conversation.", zap.Error(err))
	}
}

// selectModel picks the configured model via the model switcher.
// Non-fatal: a missing switcher means whatever model is default.
func (d *Driver) selectModel(ctx context.Context) {
	if d.cfg.Model == "" {
		return
	}
	probeCtx, cancel := context.WithTimeout(ctx, d.cfg.ProbeTimeout)
	defer cancel()

	if err := d.page.Click(probeCtx, modelSwitcherQuery); err != nil {
		d.logger.Info("Model switcher not found, continuing with default model.")
		return
	}
	modelXPath := fmt.Sprintf(`//*[normalize-space()=%q]`, d.cfg.Model)
	if err := d.page.ClickXPath(probeCtx, modelXPath); err != nil {
		d.logger.Info("Could not select model, continuing with default.",
			zap.String("model", d.cfg.Model), zap.Error(err))
	}
}

// submitPrompt types the prompt into the composer and sends it.
func (d *Driver) submitPrompt(ctx context.Context, prompt string) error {
	selector := readySelector
	if err := d.page.Type(ctx, selector, prompt); err != nil {
		selector = readySelectorLegacy
		if legacyErr := d.page.Type(ctx, selector, prompt); legacyErr != nil {
			return err
		}
	}
	return d.page.PressEnter(ctx, selector)
}

// awaitGeneratedImage polls the DOM for a generated image that is not
// the uploaded echo and returns the last match. Generation is slow, so
// the poll runs under the long generation timeout.
func (d *Driver) awaitGeneratedImage(ctx context.Context) (string, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, d.cfg.GenerationTimeout)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		var source string
		if err := d.page.Evaluate(waitCtx, lastGeneratedImageScript, &source); err != nil {
			if waitCtx.Err() != nil {
				return "", false
			}
			d.logger.Debug("Generated image probe failed.", zap.Error(err))
		} else if source != "" {
			// Give the image a moment to finish loading, then re-read:
			// the src can flip from placeholder to final asset.
			select {
			case <-time.After(2 * time.Second):
			case <-waitCtx.Done():
				return source, true
			}
			var settled string
			if err := d.page.Evaluate(waitCtx, lastGeneratedImageScript, &settled); err == nil && settled != "" {
				source = settled
			}
			return source, true
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return "", false
		}
	}
}

func sourceKind(source string) string {
	switch {
	case strings.HasPrefix(source, "data:image"):
		return "inline"
	case strings.HasPrefix(source, "http"):
		return "url"
	default:
		return "unknown"
	}
}
