package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// rodPage implements Page on top of a rod tab.
type rodPage struct {
	page         *rod.Page
	implicitWait time.Duration
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	return classify(p.page.Context(ctx).Navigate(url))
}

func (p *rodPage) WaitBody(ctx context.Context, timeout time.Duration) error {
	// Element retries until found or the timeout context expires.
	_, err := p.page.Context(ctx).Timeout(timeout).Element("body")
	return classify(err)
}

func (p *rodPage) CurrentURL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", classify(err)
	}
	return info.URL, nil
}

func (p *rodPage) ScrollHeight(ctx context.Context) (int, error) {
	v, err := p.ExecuteScript(ctx, `() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

func (p *rodPage) ViewportHeight(ctx context.Context) (int, error) {
	v, err := p.ExecuteScript(ctx, `() => window.innerHeight`)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

func (p *rodPage) ScrollBy(ctx context.Context, deltaY int) error {
	_, err := p.ExecuteScript(ctx, `(dy) => window.scrollBy(0, dy)`, deltaY)
	return err
}

func (p *rodPage) FindElements(ctx context.Context, sel Selector) ([]Element, error) {
	pg := p.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	switch sel.Kind {
	case SelectorCSS:
		els, err = pg.Elements(sel.Value)
	case SelectorXPath:
		els, err = pg.ElementsX(sel.Value)
	default:
		return nil, fmt.Errorf("browser: unknown selector kind %q", sel.Kind)
	}
	if err != nil {
		return nil, classify(err)
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, wait: p.implicitWait})
	}
	return out, nil
}

func (p *rodPage) WaitClickable(ctx context.Context, sel Selector, timeout time.Duration) (Element, error) {
	if timeout <= 0 {
		timeout = p.implicitWait
	}
	pg := p.page.Context(ctx).Timeout(timeout)

	var (
		el  *rod.Element
		err error
	)
	switch sel.Kind {
	case SelectorCSS:
		el, err = pg.Element(sel.Value)
	case SelectorXPath:
		el, err = pg.ElementX(sel.Value)
	default:
		return nil, fmt.Errorf("browser: unknown selector kind %q", sel.Kind)
	}
	if err != nil {
		return nil, lookupError(ctx, sel, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, lookupError(ctx, sel, err)
	}
	if disabled, err := el.Property("disabled"); err == nil && disabled.Bool() {
		return nil, fmt.Errorf("%w: %s is disabled", ErrNotFound, sel)
	}

	// Drop the lookup deadline so later calls run under the caller's context.
	return &rodElement{el: el.CancelTimeout(), wait: p.implicitWait}, nil
}

// lookupError reports an expired lookup deadline as ErrNotFound while the
// caller's own context is still live.
func lookupError(ctx context.Context, sel Selector, err error) error {
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return classify(err)
}

func (p *rodPage) ExecuteScript(ctx context.Context, js string, args ...any) (gson.JSON, error) {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return gson.New(nil), classify(err)
	}
	return res.Value, nil
}

func (p *rodPage) GoBack(ctx context.Context) error {
	return classify(p.page.Context(ctx).NavigateBack())
}

func (p *rodPage) Cookies(ctx context.Context) ([]Cookie, error) {
	// nil urls means the cookies visible to the current page.
	raw, err := p.page.Context(ctx).Cookies(nil)
	if err != nil {
		return nil, classify(err)
	}
	return fromProtoCookies(raw), nil
}

func fromProtoCookies(raw []*proto.NetworkCookie) []Cookie {
	out := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		if c == nil {
			continue
		}
		out = append(out, Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	return out
}
