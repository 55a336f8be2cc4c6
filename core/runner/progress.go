package runner

import (
	"strings"

	"github.com/tristendillon/pydeploy/core/models"
)

const (
	StartProgress    = 5
	CreepLimit       = 90
	StreamingLimit   = 99
	CompleteProgress = 100

	excerptErrorLines = 5
	excerptTailLines  = 10
)

type keyword struct {
	text  string
	value int
}

// keywords maps output fragments to a rough percentage. The first fragment
// found in a line wins; the "building exe"/"building pyz" stages are listed
// ahead of plain "building" so they are not shadowed by it.
var keywords = []keyword{
	{"building exe", 75},
	{"building pyz", 80},
	{"building", 15},
	{"analyzing", 25},
	{"running", 35},
	{"processing", 45},
	{"collecting", 55},
	{"copying", 65},
	{"appending", 85},
	{"completed successfully", 100},
}

func Stage(value int) string {
	switch {
	case value <= 10:
		return "Initializing"
	case value <= 30:
		return "Analyzing dependencies"
	case value <= 50:
		return "Collecting modules"
	case value <= 70:
		return "Building executable"
	case value <= 90:
		return "Finalizing"
	default:
		return "Complete"
	}
}

func progressEvent(value int) models.ProgressEvent {
	return models.ProgressEvent{Value: value, Stage: Stage(value)}
}

// Estimator turns output lines into a non-decreasing progress estimate.
// Only a successful exit reaches 100.
type Estimator struct {
	current int
}

func NewEstimator() *Estimator {
	return &Estimator{}
}

func (e *Estimator) Current() int {
	return e.current
}

func (e *Estimator) Start() models.ProgressEvent {
	e.current = StartProgress
	return progressEvent(e.current)
}

// Observe feeds one output line and returns the progress updates it caused,
// in order.
func (e *Estimator) Observe(line string) []models.ProgressEvent {
	var events []models.ProgressEvent

	text := strings.ToLower(strings.TrimSpace(line))
	if target, ok := matchKeyword(text); ok {
		target = min(target, StreamingLimit)
		if target > e.current {
			e.current = target
			events = append(events, progressEvent(e.current))
		}
	}

	if text != "" && e.current < CreepLimit {
		e.current = min(e.current+1, CreepLimit)
		events = append(events, progressEvent(e.current))
	}
	return events
}

func (e *Estimator) Complete() models.ProgressEvent {
	e.current = CompleteProgress
	return progressEvent(e.current)
}

func matchKeyword(text string) (int, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw.text) {
			return kw.value, true
		}
	}
	return 0, false
}

// Excerpt picks the diagnostic lines shown for a failed run: the last five
// lines mentioning "error" or "failed", or the last ten lines when none do.
func Excerpt(lines []string) string {
	var flagged []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
			flagged = append(flagged, line)
		}
	}
	if len(flagged) > 0 {
		return strings.Join(tail(flagged, excerptErrorLines), "\n")
	}
	return strings.Join(tail(lines, excerptTailLines), "\n")
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
