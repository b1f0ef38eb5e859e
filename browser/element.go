package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// pointerSteps is the number of intermediate mouse-move events dispatched
// on the way to a click target.
const pointerSteps = 8

// rodElement implements Element on top of a rod element.
type rodElement struct {
	el   *rod.Element
	wait time.Duration
}

func (e *rodElement) bind(ctx context.Context) *rod.Element {
	if e.wait > 0 {
		return e.el.Context(ctx).Timeout(e.wait)
	}
	return e.el.Context(ctx)
}

func (e *rodElement) Href(ctx context.Context) (string, error) {
	// The property, unlike the attribute, is the resolved absolute URL.
	v, err := e.bind(ctx).Property("href")
	if err != nil {
		return "", classify(err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func (e *rodElement) Visible(ctx context.Context) (bool, error) {
	ok, err := e.bind(ctx).Visible()
	return ok, classify(err)
}

func (e *rodElement) Bounds(ctx context.Context) (Rect, error) {
	shape, err := e.bind(ctx).Shape()
	if err != nil {
		return Rect{}, classify(err)
	}
	box := shape.Box()
	if box == nil {
		return Rect{}, nil
	}
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *rodElement) Click(ctx context.Context) error {
	return classify(e.bind(ctx).Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) ClickAt(ctx context.Context, offsetX, offsetY float64) error {
	el := e.bind(ctx)
	if err := el.ScrollIntoView(); err != nil {
		return classify(err)
	}
	// Reports CoveredError when an overlay sits on top of the element.
	if _, err := el.Interactable(); err != nil {
		return classify(err)
	}

	// Re-read the box: scrolling into view moves it.
	shape, err := el.Shape()
	if err != nil {
		return classify(err)
	}
	box := shape.Box()
	if box == nil {
		return ErrStaleElement
	}

	mouse := el.Page().Mouse
	to := proto.Point{X: box.X + offsetX, Y: box.Y + offsetY}
	if err := mouse.MoveLinear(to, pointerSteps); err != nil {
		return classify(err)
	}
	return classify(mouse.Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) ForceClick(ctx context.Context) error {
	_, err := e.bind(ctx).Eval(`() => this.click()`)
	return classify(err)
}
