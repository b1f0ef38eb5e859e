package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser     BrowserConfig
	Interaction InteractionConfig
	Batch       BatchConfig
	Output      OutputConfig
	Log         LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// ImplicitWait is the default deadline for element lookups.
	ImplicitWait time.Duration // default: 10s

	// WindowWidth and WindowHeight size the viewport in headless mode.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080
}

// InteractionConfig controls the per-page browsing simulation.
type InteractionConfig struct {
	// MaxScrolls caps the scroll iterations per page.
	MaxScrolls int // default: 5

	// ScrollPause is the base pause after each scroll.
	ScrollPause time.Duration // default: 2s

	// ScrollJitterMin/Max bound the random extra pause after each scroll.
	ScrollJitterMin time.Duration // default: 500ms
	ScrollJitterMax time.Duration // default: 1.5s

	// ScrollFraction is the share of the viewport height scrolled per step.
	ScrollFraction float64 // default: 0.8

	// NavigationTimeout bounds the wait for <body> after the initial navigation.
	NavigationTimeout time.Duration // default: 30s

	// ConsentTimeout bounds the wait for each consent selector strategy.
	ConsentTimeout time.Duration // default: 10s

	// ConsentPauseMin/Max bound the pause after dismissing a consent banner.
	ConsentPauseMin time.Duration // default: 2s
	ConsentPauseMax time.Duration // default: 4s

	// MinLinkClicks/MaxLinkClicks bound the number of random link visits.
	MinLinkClicks int // default: 1
	MaxLinkClicks int // default: 3

	// LinkDwellMin/Max bound the time spent on a clicked link.
	LinkDwellMin time.Duration // default: 3s
	LinkDwellMax time.Duration // default: 7s

	// BackTimeout bounds the wait for <body> after navigating back.
	BackTimeout time.Duration // default: 10s

	// ConsentPhrases lists extra button texts tried after the built-in
	// consent selectors (e.g. "Alle akzeptieren").
	ConsentPhrases []string
}

// BatchConfig controls the URL range and pacing of a run.
type BatchConfig struct {
	// Start is the first index (inclusive) of the normalized URL list to visit.
	Start int // default: 0

	// End is the last index (exclusive); 0 means the end of the list.
	End int // default: 0

	// DelayMin/Max bound the random pause between two URLs.
	DelayMin time.Duration // default: 5s
	DelayMax time.Duration // default: 10s
}

// OutputConfig controls where collected cookies are written.
type OutputConfig struct {
	// Path is the output file; its extension is replaced per format.
	Path string // default: "collected_cookies.csv"

	// Format is "csv", "xlsx" or "both".
	Format string // default: "csv"

	// MergeExisting prepends rows already present in the output file.
	MergeExisting bool // default: false
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"

	// File, when set, receives a JSON copy of every log line with rotation.
	File       string
	MaxSizeMB  int // default: 10
	MaxBackups int // default: 3
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:     envBoolOr("COOKIEHARVEST_HEADLESS", true),
			NoSandbox:    envBoolOr("COOKIEHARVEST_NO_SANDBOX", true),
			BrowserBin:   os.Getenv("COOKIEHARVEST_BROWSER_BIN"),
			ImplicitWait: envDurationOr("COOKIEHARVEST_IMPLICIT_WAIT", 10*time.Second),
			WindowWidth:  envIntOr("COOKIEHARVEST_WINDOW_WIDTH", 1920),
			WindowHeight: envIntOr("COOKIEHARVEST_WINDOW_HEIGHT", 1080),
		},
		Interaction: InteractionConfig{
			MaxScrolls:        envIntOr("COOKIEHARVEST_MAX_SCROLLS", 5),
			ScrollPause:       envDurationOr("COOKIEHARVEST_SCROLL_PAUSE", 2*time.Second),
			ScrollJitterMin:   500 * time.Millisecond,
			ScrollJitterMax:   1500 * time.Millisecond,
			ScrollFraction:    envFloatOr("COOKIEHARVEST_SCROLL_FRACTION", 0.8),
			NavigationTimeout: envDurationOr("COOKIEHARVEST_NAV_TIMEOUT", 30*time.Second),
			ConsentTimeout:    envDurationOr("COOKIEHARVEST_CONSENT_TIMEOUT", 10*time.Second),
			ConsentPauseMin:   2 * time.Second,
			ConsentPauseMax:   4 * time.Second,
			MinLinkClicks:     envIntOr("COOKIEHARVEST_MIN_LINK_CLICKS", 1),
			MaxLinkClicks:     envIntOr("COOKIEHARVEST_MAX_LINK_CLICKS", 3),
			LinkDwellMin:      3 * time.Second,
			LinkDwellMax:      7 * time.Second,
			BackTimeout:       envDurationOr("COOKIEHARVEST_BACK_TIMEOUT", 10*time.Second),
			ConsentPhrases:    envSliceOr("COOKIEHARVEST_CONSENT_PHRASES", nil),
		},
		Batch: BatchConfig{
			Start:    envIntOr("COOKIEHARVEST_START", 0),
			End:      envIntOr("COOKIEHARVEST_END", 0),
			DelayMin: envDurationOr("COOKIEHARVEST_DELAY_MIN", 5*time.Second),
			DelayMax: envDurationOr("COOKIEHARVEST_DELAY_MAX", 10*time.Second),
		},
		Output: OutputConfig{
			Path:          envOr("COOKIEHARVEST_OUTPUT", "collected_cookies.csv"),
			Format:        envOr("COOKIEHARVEST_OUTPUT_FORMAT", "csv"),
			MergeExisting: envBoolOr("COOKIEHARVEST_MERGE_EXISTING", false),
		},
		Log: LogConfig{
			Level:      envOr("COOKIEHARVEST_LOG_LEVEL", "info"),
			Format:     envOr("COOKIEHARVEST_LOG_FORMAT", "text"),
			File:       os.Getenv("COOKIEHARVEST_LOG_FILE"),
			MaxSizeMB:  envIntOr("COOKIEHARVEST_LOG_MAX_SIZE_MB", 10),
			MaxBackups: envIntOr("COOKIEHARVEST_LOG_MAX_BACKUPS", 3),
		},
	}
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Interaction.MaxScrolls < 0 {
		errs = append(errs, fmt.Errorf("interaction.max_scrolls must not be negative, got %d", c.Interaction.MaxScrolls))
	}
	if c.Interaction.ScrollFraction <= 0 || c.Interaction.ScrollFraction > 1 {
		errs = append(errs, fmt.Errorf("interaction.scroll_fraction must be in (0, 1], got %g", c.Interaction.ScrollFraction))
	}
	if c.Interaction.MinLinkClicks < 0 || c.Interaction.MaxLinkClicks < c.Interaction.MinLinkClicks {
		errs = append(errs, fmt.Errorf("interaction link clicks must satisfy 0 <= min <= max, got %d..%d",
			c.Interaction.MinLinkClicks, c.Interaction.MaxLinkClicks))
	}
	if c.Batch.Start < 0 {
		errs = append(errs, fmt.Errorf("batch.start must not be negative, got %d", c.Batch.Start))
	}
	if c.Batch.End < 0 {
		errs = append(errs, fmt.Errorf("batch.end must not be negative, got %d", c.Batch.End))
	}
	if c.Batch.DelayMax < c.Batch.DelayMin {
		errs = append(errs, fmt.Errorf("batch.delay_max (%s) is shorter than batch.delay_min (%s)", c.Batch.DelayMax, c.Batch.DelayMin))
	}
	switch c.Output.Format {
	case "csv", "xlsx", "both":
	default:
		errs = append(errs, fmt.Errorf("output.format must be csv, xlsx or both, got %q", c.Output.Format))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path must not be empty"))
	}
	return errors.Join(errs...)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
