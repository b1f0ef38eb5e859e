package interaction

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
)

var anchorSelector = browser.CSS("a[href]")

// IsCandidateHref reports whether href is worth clicking from a page at
// current. Empty, in-page, mailto: and tel: links are excluded, as are the
// current URL itself and fragment variants of it.
func IsCandidateHref(href, current string) bool {
	switch {
	case href == "",
		strings.HasPrefix(href, "#"),
		strings.HasPrefix(href, "mailto:"),
		strings.HasPrefix(href, "tel:"),
		href == current:
		return false
	}
	base := current
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if base != "" && strings.HasPrefix(href, base) && len(href) > len(base) && strings.Contains(href, "#") {
		return false
	}
	return true
}

// collectLinks returns the visible anchors of page that pass IsCandidateHref.
// Anchors that fail to report href or visibility are dropped.
func (e *Engine) collectLinks(ctx context.Context, page browser.Page, fallback string) ([]browser.Element, error) {
	current, err := page.CurrentURL(ctx)
	if err != nil || current == "" {
		current = fallback
	}

	anchors, err := page.FindElements(ctx, anchorSelector)
	if err != nil {
		return nil, err
	}

	var out []browser.Element
	for _, a := range anchors {
		href, err := a.Href(ctx)
		if err != nil || !IsCandidateHref(href, current) {
			continue
		}
		if visible, err := a.Visible(ctx); err != nil || !visible {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// exploreLinks clicks a few random links, dwelling on each before going
// back. It returns the number of links actually visited.
func (e *Engine) exploreLinks(ctx context.Context, page browser.Page, url string) (int, []models.Warning) {
	var warnings []models.Warning

	links, err := e.collectLinks(ctx, page, url)
	if err != nil {
		return 0, warn(warnings, models.StageExplore, "failed to collect links", err)
	}
	if len(links) == 0 {
		slog.Debug("no explorable links found", "url", url)
		return 0, warnings
	}

	want := min(random.IntBetween(e.rng, e.cfg.MinLinkClicks, e.cfg.MaxLinkClicks), len(links))
	slog.Debug("exploring links", "url", url, "candidates", len(links), "clicks", want)

	clicked := 0
	for attempt := 0; attempt < want; attempt++ {
		if ctx.Err() != nil {
			return clicked, warn(warnings, models.StageExplore, "link exploration aborted", ctx.Err())
		}
		if len(links) == 0 {
			break
		}

		idx := e.rng.Intn(len(links))
		err := e.visit(ctx, page, links[idx])
		switch {
		case err == nil:
			clicked++
		case errors.Is(err, errSkipLink):
			slog.Debug("skipping degenerate link")
		case errors.Is(err, browser.ErrStaleElement):
			warnings = warn(warnings, models.StageExplore, "link went stale, re-collecting", err)
			links, err = e.collectLinks(ctx, page, url)
			if err != nil {
				return clicked, warn(warnings, models.StageExplore, "failed to re-collect links", err)
			}
			if len(links) == 0 {
				slog.Debug("no links left after re-collect", "url", url)
				return clicked, warnings
			}
		default:
			warnings = warn(warnings, models.StageExplore, "link visit failed", err)
		}
	}
	return clicked, warnings
}

var errSkipLink = errors.New("link has no clickable area")

// visit clicks a random interior point of link, dwells, and navigates back.
func (e *Engine) visit(ctx context.Context, page browser.Page, link browser.Element) error {
	rect, err := link.Bounds(ctx)
	if err != nil {
		return err
	}
	w, h := int(math.Floor(rect.Width)), int(math.Floor(rect.Height))
	if w <= 1 || h <= 1 {
		return errSkipLink
	}

	x := random.IntBetween(e.rng, 1, w-1)
	y := random.IntBetween(e.rng, 1, h-1)
	if err := link.ClickAt(ctx, float64(x), float64(y)); err != nil {
		return err
	}

	if err := e.sleeper.Sleep(ctx, random.Between(e.rng, e.cfg.LinkDwellMin, e.cfg.LinkDwellMax)); err != nil {
		return err
	}
	if err := page.GoBack(ctx); err != nil {
		return err
	}
	return page.WaitBody(ctx, e.cfg.BackTimeout)
}
