// Package cookies turns the browser's cookie jar into CookieRecords.
package cookies

import (
	"context"
	"log/slog"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/models"
)

// Source is anything that can report the cookies visible to its current page.
// browser.Page satisfies it.
type Source interface {
	Cookies(ctx context.Context) ([]browser.Cookie, error)
}

// Result holds the records read from one page plus non-fatal problems.
type Result struct {
	Records  []models.CookieRecord
	Warnings []models.Warning
}

// Extract reads every cookie visible to src and normalizes it. url only
// labels logs and warnings. A read failure yields no records and one warning.
func Extract(ctx context.Context, src Source, url string) Result {
	jar, err := src.Cookies(ctx)
	if err != nil {
		slog.Warn("failed to read cookies", "url", url, "error", err)
		return Result{
			Warnings: []models.Warning{{
				Stage:   models.StageCookies,
				Message: "failed to read cookies for " + url,
				Err:     models.NewHarvestError(models.ErrCodeCookieRead, "cookie jar unreadable", err),
			}},
		}
	}

	records := make([]models.CookieRecord, 0, len(jar))
	for _, c := range jar {
		records = append(records, models.NewCookieRecord(c.Domain, c.Name, c.Value))
	}
	slog.Info("collected cookies", "url", url, "count", len(records))
	return Result{Records: records}
}
