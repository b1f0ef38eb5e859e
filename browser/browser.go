// Package browser is the capability surface the harvester drives: a Page
// that can navigate, look up elements, scroll, run scripts and read cookies,
// and the Element handles it returns. The production implementation is
// backed by go-rod; tests use browsertest.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/ysmood/gson"
)

// SelectorKind is the lookup strategy of a Selector.
type SelectorKind string

const (
	SelectorCSS   SelectorKind = "css"
	SelectorXPath SelectorKind = "xpath"
)

// Selector is one element lookup strategy.
type Selector struct {
	Kind  SelectorKind
	Value string
}

// CSS returns a CSS selector.
func CSS(v string) Selector { return Selector{Kind: SelectorCSS, Value: v} }

// XPath returns an XPath selector.
func XPath(v string) Selector { return Selector{Kind: SelectorXPath, Value: v} }

func (s Selector) String() string { return string(s.Kind) + ":" + s.Value }

// Rect is an element's on-screen bounding box in CSS pixels.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Cookie is a cookie as reported by the browser.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

var (
	// ErrStaleElement means the element is no longer attached to the live DOM.
	ErrStaleElement = errors.New("browser: stale element")

	// ErrClickIntercepted means another element would receive the click.
	ErrClickIntercepted = errors.New("browser: click intercepted")

	// ErrNotFound means no element matched before the deadline.
	ErrNotFound = errors.New("browser: element not found")
)

// Page is one browser tab.
type Page interface {
	Navigate(ctx context.Context, url string) error

	// WaitBody blocks until a <body> element is present or timeout elapses.
	WaitBody(ctx context.Context, timeout time.Duration) error

	CurrentURL(ctx context.Context) (string, error)
	ScrollHeight(ctx context.Context) (int, error)
	ViewportHeight(ctx context.Context) (int, error)
	ScrollBy(ctx context.Context, deltaY int) error

	// FindElements returns the elements currently matching sel without waiting.
	FindElements(ctx context.Context, sel Selector) ([]Element, error)

	// WaitClickable waits up to timeout for an element matching sel to be
	// visible and enabled.
	WaitClickable(ctx context.Context, sel Selector, timeout time.Duration) (Element, error)

	ExecuteScript(ctx context.Context, js string, args ...any) (gson.JSON, error)
	GoBack(ctx context.Context) error
	Cookies(ctx context.Context) ([]Cookie, error)
}

// Element is a handle to a DOM element of a Page.
type Element interface {
	Href(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	Bounds(ctx context.Context) (Rect, error)

	// Click performs a regular click on the element's centre.
	Click(ctx context.Context) error

	// ClickAt moves the pointer to (offsetX, offsetY) relative to the
	// element's top-left corner and clicks there.
	ClickAt(ctx context.Context, offsetX, offsetY float64) error

	// ForceClick dispatches a script-level click, bypassing overlays.
	ForceClick(ctx context.Context) error
}
