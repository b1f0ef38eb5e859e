package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
)

// classify maps raw rod and CDP errors onto the package sentinels so callers
// can branch with errors.Is. Unknown errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var covered *rod.CoveredError
	if errors.As(err, &covered) {
		return fmt.Errorf("%w: %w", ErrClickIntercepted, err)
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if isStale(err) {
		return fmt.Errorf("%w: %w", ErrStaleElement, err)
	}
	return err
}

func isStale(err error) bool {
	if errors.Is(err, cdp.ErrObjNotFound) ||
		errors.Is(err, cdp.ErrCtxNotFound) ||
		errors.Is(err, cdp.ErrCtxDestroyed) {
		return true
	}
	// DOM.* calls on a detached node report this without a dedicated sentinel.
	msg := err.Error()
	return strings.Contains(msg, "Could not find node with given id") ||
		strings.Contains(msg, "Node is detached from document")
}
