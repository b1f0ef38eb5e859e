package interaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
)

// simulateScroll scrolls down in viewport-sized steps until the page stops
// growing or maxScrolls is reached, and reports the number of steps taken.
func (e *Engine) simulateScroll(ctx context.Context, page browser.Page, maxScrolls int, pause time.Duration) (int, []models.Warning) {
	var warnings []models.Warning

	last, err := page.ScrollHeight(ctx)
	if err != nil {
		return 0, warn(warnings, models.StageScroll, "failed to measure page height", err)
	}

	scrolls := 0
	for scrolls < maxScrolls {
		viewport, err := page.ViewportHeight(ctx)
		if err != nil {
			return scrolls, warn(warnings, models.StageScroll, "failed to measure viewport", err)
		}
		if err := page.ScrollBy(ctx, int(float64(viewport)*e.cfg.ScrollFraction)); err != nil {
			return scrolls, warn(warnings, models.StageScroll, "scroll failed", err)
		}
		scrolls++

		wait := pause + random.Between(e.rng, e.cfg.ScrollJitterMin, e.cfg.ScrollJitterMax)
		if err := e.sleeper.Sleep(ctx, wait); err != nil {
			return scrolls, warn(warnings, models.StageScroll, "scroll pause interrupted", err)
		}

		height, err := page.ScrollHeight(ctx)
		if err != nil {
			return scrolls, warn(warnings, models.StageScroll, "failed to measure page height", err)
		}
		if height == last {
			slog.Debug("scroll reached end of page", "scrolls", scrolls)
			break
		}
		last = height
	}
	slog.Debug("finished scrolling", "scrolls", scrolls)
	return scrolls, warnings
}
