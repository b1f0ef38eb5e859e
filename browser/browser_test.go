package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/cookieharvest/config"
)

func TestNewLauncherHeadlessFlags(t *testing.T) {
	cfg := config.BrowserConfig{Headless: true, NoSandbox: true, WindowWidth: 1920, WindowHeight: 1080}
	l := newLauncher(cfg, UserAgents[0])

	assert.Equal(t, "new", l.Get(flags.Headless))
	assert.True(t, l.Has(flags.NoSandbox))
	assert.True(t, l.Has(flags.Flag("disable-gpu")))
	assert.True(t, l.Has(flags.Flag("no-first-run")))
	assert.Equal(t, "1920,1080", l.Get(flags.Flag("window-size")))
	assert.Equal(t, "AutomationControlled", l.Get(flags.Flag("disable-blink-features")))
	assert.False(t, l.Has(flags.Flag("enable-automation")))
	assert.Equal(t, UserAgents[0], l.Get(flags.Flag("user-agent")))
}

func TestNewLauncherHeadful(t *testing.T) {
	cfg := config.BrowserConfig{Headless: false, WindowWidth: 1920, WindowHeight: 1080}
	l := newLauncher(cfg, UserAgents[2])

	assert.False(t, l.Has(flags.Headless))
	assert.True(t, l.Has(flags.Flag("start-maximized")))
	assert.False(t, l.Has(flags.Flag("window-size")))
	assert.Equal(t, UserAgents[2], l.Get(flags.Flag("user-agent")))
}

func TestUserAgentPool(t *testing.T) {
	require.Len(t, UserAgents, 3)
	for _, ua := range UserAgents {
		assert.Contains(t, ua, "Mozilla/5.0")
		assert.Contains(t, ua, "Chrome/")
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	stale := classify(cdp.ErrObjNotFound)
	assert.ErrorIs(t, stale, ErrStaleElement)
	assert.ErrorIs(t, stale, cdp.ErrObjNotFound)

	assert.ErrorIs(t, classify(errors.New("Could not find node with given id")), ErrStaleElement)

	notFound := classify(fmt.Errorf("lookup: %w", &rod.ElementNotFoundError{}))
	assert.ErrorIs(t, notFound, ErrNotFound)

	other := errors.New("net::ERR_NAME_NOT_RESOLVED")
	assert.Same(t, other, classify(other))
}

func TestFromProtoCookies(t *testing.T) {
	got := fromProtoCookies([]*proto.NetworkCookie{
		{Name: "sid", Value: "1", Domain: ".example.com", Path: "/"},
		nil,
		{Name: "pref", Value: "dark", Domain: "www.example.com", Path: "/app"},
	})
	assert.Equal(t, []Cookie{
		{Name: "sid", Value: "1", Domain: ".example.com", Path: "/"},
		{Name: "pref", Value: "dark", Domain: "www.example.com", Path: "/app"},
	}, got)
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "css:a", CSS("a").String())
	assert.Equal(t, "xpath://button", XPath("//button").String())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	var s Session
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestLookupError(t *testing.T) {
	sel := CSS("button.accept")

	err := lookupError(context.Background(), sel, fmt.Errorf("wait: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = lookupError(ctx, sel, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNotFound)
}
