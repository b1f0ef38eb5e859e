package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/cookieharvest/config"
	"github.com/use-agent/cookieharvest/models"
	"github.com/use-agent/cookieharvest/random"
)

// UserAgents is the pool of desktop identities a session picks from.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// hideWebdriverJS removes the automation flag from page-side feature detection.
const hideWebdriverJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Session owns one browser process and the single tab the harvester drives.
// It is not safe for concurrent use.
type Session struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	userAgent string
	cfg       config.BrowserConfig

	closeOnce sync.Once
	closeErr  error
}

// NewSession launches a browser configured to look like a regular desktop
// Chrome and opens its working tab. A launch failure is returned as a
// HarvestError with code ErrCodeBrowserLaunch; there are no retries.
func NewSession(cfg config.BrowserConfig, rng random.Source) (*Session, error) {
	ua := random.Choice(rng, UserAgents)
	l := newLauncher(cfg, ua)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewHarvestError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewHarvestError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	s := &Session{
		launcher:  l,
		browser:   browser,
		userAgent: ua,
		cfg:       cfg,
	}
	if err := s.openPage(); err != nil {
		_ = s.Close()
		return nil, models.NewHarvestError(
			models.ErrCodeBrowserLaunch,
			"failed to prepare browser page",
			err,
		)
	}
	slog.Info("browser session ready", "userAgent", ua)
	return s, nil
}

// newLauncher builds the Chromium command line. Stealth flags only apply in
// headless mode, where automation is easiest to fingerprint.
func newLauncher(cfg config.BrowserConfig, ua string) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	if cfg.Headless {
		l.Set(flags.Headless, "new")
		l.Set(flags.Flag("disable-gpu"))
		l.Set(flags.Flag("no-first-run"))
		l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))
		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
	} else {
		l.Set(flags.Flag("start-maximized"))
	}

	l.Set(flags.Flag("user-agent"), ua)
	return l
}

// openPage creates the working tab with the identity patches applied.
func (s *Session) openPage() error {
	// stealth.Page injects the evasion bundle on every new document.
	page, err := stealth.Page(s.browser)
	if err != nil {
		return fmt.Errorf("create stealth page: %w", err)
	}
	s.page = page

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent}); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}

	if s.cfg.Headless {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             s.cfg.WindowWidth,
			Height:            s.cfg.WindowHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			return fmt.Errorf("set viewport: %w", err)
		}
	} else if err := page.SetWindow(&proto.BrowserBounds{
		WindowState: proto.BrowserWindowStateMaximized,
	}); err != nil {
		slog.Warn("failed to maximize window", "error", err)
	}

	if _, err := page.EvalOnNewDocument(hideWebdriverJS); err != nil {
		slog.Warn("webdriver patch for new documents failed", "error", err)
	}
	if _, err := page.Eval(`() => { ` + hideWebdriverJS + ` }`); err != nil {
		slog.Warn("webdriver patch failed", "error", err)
	}
	return nil
}

// Page returns the capability surface of the session's tab.
func (s *Session) Page() Page {
	return &rodPage{page: s.page, implicitWait: s.cfg.ImplicitWait}
}

// UserAgent returns the identity chosen at launch.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Close kills the browser process and removes its profile directory.
// It is safe to call more than once; only the first call does any work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		slog.Info("browser session shutting down")
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Cleanup()
		}
		slog.Info("browser session shutdown complete")
	})
	return s.closeErr
}
