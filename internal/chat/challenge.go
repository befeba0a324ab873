// internal/chat/challenge.go
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Signal classifies what the challenge detector saw on a loaded page.
type Signal int

const (
	SignalNone Signal = iota
	SignalCloudflare
	SignalSecurityCheck
)

func (s Signal) String() string {
	switch s {
	case SignalCloudflare:
		return "cloudflare_challenge"
	case SignalSecurityCheck:
		return "security_check_text"
	default:
		return "none"
	}
}

// challengeSelectors are the structural markers of a verification wall,
// checked in order; the first hit short-circuits.
var challengeSelectors = []string{
	`iframe[src*="challenges.cloudflare.com"]`,
	`#challenge-form`,
	`#challenge-stage`,
	`.cf-turnstile`,
	`iframe[src*="hcaptcha.com"]`,
}

// challengePhrases are matched against the lowercased page text when no
// structural marker is present.
var challengePhrases = []string{
	"verify you are human",
	"checking your browser",
	"security check",
	"unusual activity",
	"please stand by, while we are checking your browser",
}

// containsChallengePhrase reports whether the rendered page text reads
// like a verification interstitial.
func containsChallengePhrase(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range challengePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// DetectChallenge inspects the loaded page for automated-access
// countermeasures: a structural pass over known challenge markers, then
// a text pass over the rendered page. Probe errors are swallowed; a
// flaky probe must not masquerade as a challenge.
func DetectChallenge(ctx context.Context, page Page, logger *zap.Logger) Signal {
	for _, selector := range challengeSelectors {
		found, err := page.Exists(ctx, selector)
		if err != nil {
			logger.Debug("Challenge marker probe failed.", zap.String("selector", selector), zap.Error(err))
			continue
		}
		if found {
			logger.Warn("Challenge marker present.", zap.String("selector", selector))
			return SignalCloudflare
		}
	}

	text, err := page.BodyText(ctx)
	if err != nil {
		logger.Debug("Could not read page text for challenge detection.", zap.Error(err))
		return SignalNone
	}
	if containsChallengePhrase(text) {
		logger.Warn("Challenge phrase present in page text.")
		return SignalSecurityCheck
	}
	return SignalNone
}

// abortOnChallenge captures a diagnostic screenshot and returns the
// fatal challenge error when a signal is raised.
func abortOnChallenge(ctx context.Context, page Page, logger *zap.Logger, signal Signal, screenshotPath string) error {
	if signal == SignalNone {
		return nil
	}
	if err := page.Screenshot(ctx, screenshotPath); err != nil {
		logger.Warn("Could not save challenge screenshot.", zap.Error(err))
	}
	return fmt.Errorf("%w (%s)", ErrChallenge, signal)
}
