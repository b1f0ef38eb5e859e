package models

import "fmt"

// Error codes used for run-level and per-URL error classification.
const (
	ErrCodeBrowserLaunch     = "BROWSER_LAUNCH_FAILED"
	ErrCodeNavigation        = "NAVIGATION_FAILED"
	ErrCodeNavigationTimeout = "NAVIGATION_TIMEOUT"
	ErrCodeInvalidURL        = "INVALID_URL"
	ErrCodeCookieRead        = "COOKIE_READ_FAILED"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeOutput            = "OUTPUT_FAILED"
	ErrCodeCanceled          = "CANCELED"
)

// HarvestError tags a failure with one of the codes above so the runner
// can tell a dead browser from a single unreachable site. The cause, if
// any, stays reachable through errors.Is and errors.As.
type HarvestError struct {
	Code    string
	Message string
	Err     error
}

func (e *HarvestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *HarvestError) Unwrap() error {
	return e.Err
}

// NewHarvestError builds a HarvestError; err may be nil.
func NewHarvestError(code, message string, err error) *HarvestError {
	return &HarvestError{Code: code, Message: message, Err: err}
}

// Fatal reports whether the error should abort the whole run rather than
// just the URL being processed.
func (e *HarvestError) Fatal() bool {
	return e.Code == ErrCodeBrowserLaunch
}
