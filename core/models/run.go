package models

// ProgressEvent is one step of the coarse progress estimate of a run.
type ProgressEvent struct {
	Value int
	Stage string
}

type RunEventKind int

const (
	EventLine RunEventKind = iota
	EventProgress
)

// RunEvent is either an output line or a progress update.
type RunEvent struct {
	Kind     RunEventKind
	Line     string
	Progress ProgressEvent
}

// RunRequest describes a single invocation of the packaging tool.
type RunRequest struct {
	Command string
	// ExtraSearchPath is prepended to PYTHONPATH when non-empty.
	ExtraSearchPath string
}

type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeFailure
)

func (s OutcomeStatus) String() string {
	if s == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// RunOutcome is the terminal result of a run. Excerpt is only set on a
// non-zero exit.
type RunOutcome struct {
	Status   OutcomeStatus
	Message  string
	Excerpt  string
	ExitCode int
	Err      error
}

func (o RunOutcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}
