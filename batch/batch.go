// Package batch runs one harvesting session over a list of domains and
// persists the collected cookies.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/config"
	"github.com/use-agent/cookieharvest/cookies"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
	"github.com/use-agent/cookieharvest/target"
)

// Session is the part of a browser session the runner needs.
// *browser.Session satisfies it.
type Session interface {
	Page() browser.Page
	Close() error
}

// SessionFactory opens the browser session for a run.
type SessionFactory func(ctx context.Context) (Session, error)

// Interactor visits one URL. *interaction.Engine satisfies it.
type Interactor interface {
	Interact(ctx context.Context, page browser.Page, url string, maxScrolls int, scrollPause time.Duration) models.InteractionResult
}

// Run statuses.
const (
	StatusCompleted   = "completed"
	StatusPartial     = "partial"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// Summary describes how a run went.
type Summary struct {
	Status    string
	Total     int // URLs selected by the range
	Processed int
	Succeeded int
	Failed    int
	Cookies   int
	Warnings  int
	Duration  time.Duration
}

// Runner processes URLs strictly one after another on a single session.
type Runner struct {
	cfg     config.BatchConfig
	icfg    config.InteractionConfig
	open    SessionFactory
	engine  Interactor
	rng     random.Source
	sleeper random.Sleeper
}

// NewRunner creates a Runner.
func NewRunner(cfg config.BatchConfig, icfg config.InteractionConfig, open SessionFactory, engine Interactor, rng random.Source, sleeper random.Sleeper) *Runner {
	return &Runner{
		cfg:     cfg,
		icfg:    icfg,
		open:    open,
		engine:  engine,
		rng:     rng,
		sleeper: sleeper,
	}
}

// SliceRange returns urls[start:end], treating end <= 0 as len(urls) and
// clamping both bounds into range.
func SliceRange[T any](urls []T, start, end int) []T {
	n := len(urls)
	if end <= 0 || end > n {
		end = n
	}
	start = max(0, min(start, n))
	if start >= end {
		return nil
	}
	return urls[start:end]
}

// Run normalizes domains, visits the configured range and returns the
// cookies collected, in visitation order.
//
// A session that cannot be opened is fatal. When ctx is cancelled the loop
// stops before the next URL and the records gathered so far are returned
// together with ctx's error.
func (r *Runner) Run(ctx context.Context, domains []string) (models.CookieBatch, Summary, error) {
	start := time.Now()
	urls := SliceRange(target.NormalizeAll(domains), r.cfg.Start, r.cfg.End)
	summary := Summary{Total: len(urls)}

	if len(urls) == 0 {
		slog.Warn("no urls in range, nothing to do",
			"domains", len(domains), "start", r.cfg.Start, "end", r.cfg.End)
		summary.Status = StatusCompleted
		return nil, summary, nil
	}

	sess, err := r.open(ctx)
	if err != nil {
		var he *models.HarvestError
		if !errors.As(err, &he) || !he.Fatal() {
			err = models.NewHarvestError(models.ErrCodeBrowserLaunch, "failed to open browser session", err)
		}
		summary.Status = StatusFailed
		summary.Duration = time.Since(start)
		return nil, summary, fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Warn("browser session close failed", "error", err)
		}
	}()
	page := sess.Page()

	var collected models.CookieBatch
	var runErr error
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		slog.Info("processing url", "index", i+1, "total", len(urls), "url", u)

		res := r.engine.Interact(ctx, page, u.String(), r.icfg.MaxScrolls, r.icfg.ScrollPause)
		summary.Processed++
		summary.Warnings += len(res.Warnings)
		logWarnings(u.String(), res.Warnings)

		if res.Succeeded {
			summary.Succeeded++
			got := cookies.Extract(ctx, page, u.String())
			summary.Warnings += len(got.Warnings)
			logWarnings(u.String(), got.Warnings)
			if len(got.Records) == 0 {
				slog.Info("no cookies extracted", "url", u)
			}
			collected = collected.Append(got.Records...)
		} else {
			summary.Failed++
			slog.Warn("skipping cookie extraction", "url", u, "error", res.Err)
		}

		if i == len(urls)-1 {
			break
		}
		delay := random.Between(r.rng, r.cfg.DelayMin, r.cfg.DelayMax)
		slog.Debug("pausing before next url", "delay", delay)
		if err := r.sleeper.Sleep(ctx, delay); err != nil {
			runErr = err
			break
		}
	}

	summary.Cookies = len(collected)
	summary.Duration = time.Since(start)
	summary.Status = status(summary, runErr)

	slog.Info("batch finished",
		"status", summary.Status,
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"cookies", summary.Cookies,
		"warnings", summary.Warnings,
		"duration", summary.Duration,
	)
	return collected, summary, runErr
}

// Interrupted reports whether err only means the run was cut short.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func status(s Summary, runErr error) string {
	switch {
	case runErr != nil:
		return StatusInterrupted
	case s.Failed == s.Processed:
		return StatusFailed
	case s.Failed > 0:
		return StatusPartial
	default:
		return StatusCompleted
	}
}

func logWarnings(url string, warnings []models.Warning) {
	for _, w := range warnings {
		slog.Debug("best-effort step failed", "url", url, "stage", w.Stage, "message", w.Message, "error", w.Err)
	}
}
