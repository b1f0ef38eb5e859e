// Package browsertest provides scriptable in-memory implementations of
// browser.Page and browser.Element for tests.
package browsertest

import (
	"context"
	"fmt"
	"time"

	"github.com/use-agent/cookieharvest/browser"
	"github.com/ysmood/gson"
)

// Page is a fake browser.Page. Zero values describe a page that loads
// instantly, never grows, has no consent banner, no links and no cookies.
type Page struct {
	URL string

	NavigateErr error
	WaitBodyErr error

	// NavigateHangs makes Navigate block until its context is done.
	NavigateHangs bool

	// BackWaitErr is returned by WaitBody calls made after GoBack.
	BackWaitErr error
	BackErr     error

	// Heights are successive ScrollHeight results; the last one repeats.
	Heights   []int
	HeightErr error
	Viewport  int

	// AnchorSets are successive FindElements results; the last one repeats.
	AnchorSets [][]*Element
	FindErr    error

	// Consent maps a selector to the element WaitClickable returns for it.
	Consent map[browser.Selector]*Element

	CookieJar  []browser.Cookie
	CookiesErr error

	// Calls records every method invocation by name, in order.
	Calls []string

	Navigated  []string
	ScrolledBy []int
	Waited     []time.Duration
	Tried      []browser.Selector

	// NavDeadlines records whether each Navigate context carried a deadline.
	NavDeadlines []bool

	heightCalls int
	findCalls   int
	wentBack    bool
}

var _ browser.Page = (*Page)(nil)

func (p *Page) record(name string) { p.Calls = append(p.Calls, name) }

// Count returns how many times the named method was called.
func (p *Page) Count(name string) int {
	n := 0
	for _, c := range p.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.record("Navigate")
	p.Navigated = append(p.Navigated, url)
	_, hasDeadline := ctx.Deadline()
	p.NavDeadlines = append(p.NavDeadlines, hasDeadline)
	if p.NavigateHangs {
		<-ctx.Done()
		return ctx.Err()
	}
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.URL = url
	return ctx.Err()
}

func (p *Page) WaitBody(ctx context.Context, timeout time.Duration) error {
	p.record("WaitBody")
	p.Waited = append(p.Waited, timeout)
	if p.wentBack {
		return p.BackWaitErr
	}
	return p.WaitBodyErr
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	p.record("CurrentURL")
	return p.URL, nil
}

func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	p.record("ScrollHeight")
	if p.HeightErr != nil {
		return 0, p.HeightErr
	}
	if len(p.Heights) == 0 {
		return 0, nil
	}
	i := p.heightCalls
	if i >= len(p.Heights) {
		i = len(p.Heights) - 1
	}
	p.heightCalls++
	return p.Heights[i], nil
}

func (p *Page) ViewportHeight(ctx context.Context) (int, error) {
	p.record("ViewportHeight")
	return p.Viewport, nil
}

func (p *Page) ScrollBy(ctx context.Context, deltaY int) error {
	p.record("ScrollBy")
	p.ScrolledBy = append(p.ScrolledBy, deltaY)
	return nil
}

func (p *Page) FindElements(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	p.record("FindElements")
	if p.FindErr != nil {
		return nil, p.FindErr
	}
	if len(p.AnchorSets) == 0 {
		return nil, nil
	}
	i := p.findCalls
	if i >= len(p.AnchorSets) {
		i = len(p.AnchorSets) - 1
	}
	p.findCalls++

	out := make([]browser.Element, 0, len(p.AnchorSets[i]))
	for _, el := range p.AnchorSets[i] {
		el.page = p
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) WaitClickable(ctx context.Context, sel browser.Selector, timeout time.Duration) (browser.Element, error) {
	p.record("WaitClickable")
	p.Tried = append(p.Tried, sel)
	if el, ok := p.Consent[sel]; ok {
		el.page = p
		return el, nil
	}
	return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, sel)
}

func (p *Page) ExecuteScript(ctx context.Context, js string, args ...any) (gson.JSON, error) {
	p.record("ExecuteScript")
	return gson.New(nil), nil
}

func (p *Page) GoBack(ctx context.Context) error {
	p.record("GoBack")
	p.wentBack = true
	return p.BackErr
}

func (p *Page) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	p.record("Cookies")
	if p.CookiesErr != nil {
		return nil, p.CookiesErr
	}
	return p.CookieJar, nil
}

// Element is a fake browser.Element.
type Element struct {
	HrefValue string
	HrefErr   error
	Hidden    bool

	Rect      browser.Rect
	BoundsErr error

	ClickErr      error
	ClickAtErr    error
	ForceClickErr error

	Clicks      int
	ForceClicks int
	ClickedAt   [][2]float64

	page *Page
}

var _ browser.Element = (*Element)(nil)

// Link returns a visible 100x20 anchor pointing at href.
func Link(href string) *Element {
	return &Element{HrefValue: href, Rect: browser.Rect{Width: 100, Height: 20}}
}

func (e *Element) Href(ctx context.Context) (string, error) {
	return e.HrefValue, e.HrefErr
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return !e.Hidden, nil
}

func (e *Element) Bounds(ctx context.Context) (browser.Rect, error) {
	return e.Rect, e.BoundsErr
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) ClickAt(ctx context.Context, offsetX, offsetY float64) error {
	if e.ClickAtErr != nil {
		return e.ClickAtErr
	}
	e.ClickedAt = append(e.ClickedAt, [2]float64{offsetX, offsetY})
	if e.page != nil {
		e.page.wentBack = false
		e.page.record("ClickAt")
	}
	return nil
}

func (e *Element) ForceClick(ctx context.Context) error {
	if e.ForceClickErr != nil {
		return e.ForceClickErr
	}
	e.ForceClicks++
	return nil
}
