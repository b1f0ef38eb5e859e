// Package interaction simulates a human visit to one page: load it, dismiss
// the cookie banner, scroll, and wander through a few links.
package interaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/config"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
	"github.com/use-agent/cookieharvest/target"
)

// Engine runs the interaction stages against a browser.Page.
// It holds no per-page state; one Engine serves a whole batch.
type Engine struct {
	cfg     config.InteractionConfig
	rng     random.Source
	sleeper random.Sleeper
	consent []browser.Selector
}

// NewEngine creates an Engine. Extra consent phrases from cfg are tried
// after the built-in selector chain.
func NewEngine(cfg config.InteractionConfig, rng random.Source, sleeper random.Sleeper) *Engine {
	return &Engine{
		cfg:     cfg,
		rng:     rng,
		sleeper: sleeper,
		consent: ConsentSelectors(cfg.ConsentPhrases...),
	}
}

// Interact navigates page to url and simulates a visit.
//
// Lifecycle:
//
//  1. Validate & navigate : the only stage that can fail the result
//  2. Consent dismissal   : best-effort
//  3. Scroll simulation   : best-effort
//  4. Link exploration    : best-effort
//
// Failures in stages 2-4 are recorded as warnings on the result.
func (e *Engine) Interact(ctx context.Context, page browser.Page, url string, maxScrolls int, scrollPause time.Duration) models.InteractionResult {
	res := models.InteractionResult{URL: url}

	// ── 1. Validate & navigate ────────────────────────────────────────
	if err := e.navigate(ctx, page, url); err != nil {
		slog.Warn("navigation failed, skipping url", "url", url, "error", err)
		res.Err = err
		return res
	}
	res.Succeeded = true
	slog.Info("page loaded", "url", url)

	// ── 2. Consent dismissal ──────────────────────────────────────────
	dismissed, warnings := e.dismissConsent(ctx, page)
	res.ConsentDismissed = dismissed
	res.Warnings = append(res.Warnings, warnings...)

	// ── 3. Scroll simulation ──────────────────────────────────────────
	scrolls, warnings := e.simulateScroll(ctx, page, maxScrolls, scrollPause)
	res.Scrolls = scrolls
	res.Warnings = append(res.Warnings, warnings...)

	// ── 4. Link exploration ───────────────────────────────────────────
	clicked, warnings := e.exploreLinks(ctx, page, url)
	res.LinksClicked = clicked
	res.Warnings = append(res.Warnings, warnings...)

	slog.Info("interaction finished",
		"url", url,
		"consentDismissed", res.ConsentDismissed,
		"scrolls", res.Scrolls,
		"linksClicked", res.LinksClicked,
		"warnings", len(res.Warnings),
	)
	return res
}

// navigate validates the URL, loads it and waits for <body>.
func (e *Engine) navigate(ctx context.Context, page browser.Page, url string) error {
	if !target.Valid(url) {
		return models.NewHarvestError(
			models.ErrCodeInvalidURL,
			"url must start with http:// or https://: "+url,
			nil,
		)
	}
	// One deadline covers the load and the body wait.
	navCtx := ctx
	if e.cfg.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, e.cfg.NavigationTimeout)
		defer cancel()
	}

	if err := page.Navigate(navCtx, url); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	if err := page.WaitBody(navCtx, e.cfg.NavigationTimeout); err != nil {
		return categorizeError(err, "page body did not appear")
	}
	return nil
}

// categorizeError wraps raw navigation errors into typed HarvestErrors.
func categorizeError(err error, msg string) *models.HarvestError {
	switch {
	case errors.Is(err, context.Canceled):
		return models.NewHarvestError(models.ErrCodeCanceled, "navigation canceled", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, browser.ErrNotFound):
		return models.NewHarvestError(models.ErrCodeNavigationTimeout, msg, err)
	default:
		return models.NewHarvestError(models.ErrCodeNavigation, msg, err)
	}
}

func warn(list []models.Warning, stage models.Stage, msg string, err error) []models.Warning {
	slog.Debug("stage warning", "stage", stage, "message", msg, "error", err)
	return append(list, models.Warning{Stage: stage, Message: msg, Err: err})
}
