package provision

import "time"

// Stage identifies a provisioning step.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageStorage     Stage = "storage"
	StageTemplate    Stage = "template"
	StageDisk        Stage = "disk"
	StageCreating    Stage = "creating"
	StageConfiguring Stage = "configuring"
	StageStarting    Stage = "starting"
	StageTransfer    Stage = "transfer"
	StageInstalling  Stage = "installing"
	StageVerifying   Stage = "verifying"
	StageComplete    Stage = "complete"
	StageCleanup     Stage = "cleanup"
	StageError       Stage = "error"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageStorage:
		return "Selecting Storage"
	case StageTemplate:
		return "Resolving Template"
	case StageDisk:
		return "Allocating Rootfs"
	case StageCreating:
		return "Creating Container"
	case StageConfiguring:
		return "Configuring"
	case StageStarting:
		return "Starting"
	case StageTransfer:
		return "Transferring Files"
	case StageInstalling:
		return "Installing"
	case StageVerifying:
		return "Verifying"
	case StageComplete:
		return "Complete"
	case StageCleanup:
		return "Cleaning Up"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// Event is one provisioning progress update.
type Event struct {
	Stage     Stage
	Message   string
	Command   string // host command being executed, if any
	Detail    string // additional detail or output
	Percent   int    // 0-100, -1 for indeterminate
	IsError   bool
	Timestamp time.Time
}

// Callback receives progress updates during provisioning.
type Callback func(Event)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ Event) {}

func newEvent(stage Stage, message string, percent int) Event {
	return Event{
		Stage:     stage,
		Message:   message,
		Percent:   percent,
		Timestamp: time.Now(),
	}
}

func newEventWithCommand(stage Stage, message, command string, percent int) Event {
	e := newEvent(stage, message, percent)
	e.Command = command
	return e
}

func newEventWithDetail(stage Stage, message, detail string, percent int) Event {
	e := newEvent(stage, message, percent)
	e.Detail = detail
	return e
}

func newErrorEvent(message string) Event {
	return Event{
		Stage:     StageError,
		Message:   message,
		Percent:   -1,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// Tracker collects progress events for later review.
type Tracker struct {
	events []Event
}

// NewTracker creates a new progress tracker.
func NewTracker() *Tracker {
	return &Tracker{events: make([]Event, 0)}
}

// Callback returns a Callback that records events.
func (t *Tracker) Callback() Callback {
	return func(e Event) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *Tracker) Events() []Event {
	return t.events
}

// HasErrors reports whether any error events were recorded.
func (t *Tracker) HasErrors() bool {
	for _, e := range t.events {
		if e.IsError {
			return true
		}
	}
	return false
}
