package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
)

const lowerText = `translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')`

// defaultConsent is the ordered chain of consent-button lookups.
var defaultConsent = []browser.Selector{
	browser.XPath(`//button[contains(` + lowerText + `, 'accept') or contains(` + lowerText + `, 'agree') or contains(` + lowerText + `, 'ok') or contains(@aria-label, 'accept') or contains(@title, 'accept')]`),
	browser.CSS(`button[id*='cookie'][id*='accept'], a[id*='cookie'][id*='accept'], button[class*='cookie'][class*='accept'], a[class*='cookie'][class*='accept']`),
	browser.XPath(`//div[contains(@class, 'cookie-consent')]//button | //div[contains(@id, 'cookie-consent')]//button`),
	browser.XPath(`//button[text()='Allow all cookies']`),
	browser.XPath(`//button[text()='Accepter']`),
	browser.XPath(`//button[contains(text(), 'قبول')]`),
	browser.XPath(`//button[contains(text(), 'متوجه شدم')]`),
}

// ConsentSelectors returns the built-in consent chain followed by one
// button-text lookup per extra phrase.
func ConsentSelectors(extra ...string) []browser.Selector {
	out := make([]browser.Selector, 0, len(defaultConsent)+len(extra))
	out = append(out, defaultConsent...)
	for _, phrase := range extra {
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			out = append(out, browser.XPath(fmt.Sprintf(`//button[contains(text(), %s)]`, xpathLiteral(phrase))))
		}
	}
	return out
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

// dismissConsent clicks the first clickable consent control. A page without
// one is not a failure.
func (e *Engine) dismissConsent(ctx context.Context, page browser.Page) (bool, []models.Warning) {
	var warnings []models.Warning

	var button browser.Element
	for _, sel := range e.consent {
		el, err := page.WaitClickable(ctx, sel, e.cfg.ConsentTimeout)
		if err == nil {
			slog.Debug("found consent button", "selector", sel.String())
			button = el
			break
		}
		if ctx.Err() != nil {
			return false, warn(warnings, models.StageConsent, "consent lookup aborted", ctx.Err())
		}
		if !errors.Is(err, browser.ErrNotFound) {
			warnings = warn(warnings, models.StageConsent, "consent lookup failed for "+sel.String(), err)
		}
	}
	if button == nil {
		slog.Debug("no clickable consent banner found")
		return false, warnings
	}

	err := button.Click(ctx)
	if errors.Is(err, browser.ErrClickIntercepted) {
		slog.Debug("consent click intercepted, falling back to script click")
		err = button.ForceClick(ctx)
	}
	if err != nil {
		return false, warn(warnings, models.StageConsent, "failed to click consent button", err)
	}
	slog.Info("clicked cookie consent button")

	pause := random.Between(e.rng, e.cfg.ConsentPauseMin, e.cfg.ConsentPauseMax)
	if err := e.sleeper.Sleep(ctx, pause); err != nil {
		warnings = warn(warnings, models.StageConsent, "pause after consent interrupted", err)
	}
	return true, warnings
}
