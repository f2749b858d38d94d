package telemetry

import "time"

type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventPanelSwitched  EventType = "panel_switched"
	EventStageAdvanced  EventType = "stage_advanced"
	EventStageCompleted EventType = "stage_completed"
	EventCycleReset     EventType = "cycle_reset"
	EventDecisionMade   EventType = "decision_made"
	EventPointsAwarded  EventType = "points_awarded"
	EventLevelUp        EventType = "level_up"
)

// Metadata keys shared by producers and consumers.
const (
	KeySession = "session"
	KeyPanel   = "panel"
	KeyStage   = "stage"
	KeyOption  = "option"
	KeySource  = "source"
	KeyPoints  = "points"
	KeyLevel   = "level"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder accepts gameplay events.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordEvent(EventType, EventMetadata) error { return nil }

type multi []Recorder

// Multi fans each event out to every recorder and returns the first error.
func Multi(recorders ...Recorder) Recorder {
	out := make(multi, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) RecordEvent(eventType EventType, metadata EventMetadata) error {
	var first error
	for _, r := range m {
		if err := r.RecordEvent(eventType, metadata); err != nil && first == nil {
			first = err
		}
	}
	return first
}
