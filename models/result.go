package models

// Stage names an interaction step for warnings and logs.
type Stage string

const (
	StageNavigate Stage = "navigate"
	StageConsent  Stage = "consent"
	StageScroll   Stage = "scroll"
	StageExplore  Stage = "explore"
	StageCookies  Stage = "cookies"
)

// Warning records a swallowed best-effort failure.
type Warning struct {
	Stage   Stage
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return string(w.Stage) + ": " + w.Message + ": " + w.Err.Error()
	}
	return string(w.Stage) + ": " + w.Message
}

// InteractionResult is the outcome of one navigate-and-interact attempt.
// Succeeded is false only when navigation itself failed; every later stage
// is best-effort and reports problems through Warnings.
type InteractionResult struct {
	URL       string
	Succeeded bool

	// Err is the navigation failure when Succeeded is false.
	Err error

	ConsentDismissed bool
	Scrolls          int
	LinksClicked     int

	Warnings []Warning
}

// Warn appends a warning for the given stage.
func (r *InteractionResult) Warn(stage Stage, msg string, err error) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: msg, Err: err})
}
