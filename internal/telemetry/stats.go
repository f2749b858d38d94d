package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"event_counts"`
	Sessions         int               `json:"sessions"`
	TotalPoints      int               `json:"total_points"`
	PointsBySource   map[string]int    `json:"points_by_source"`
	StageCompletions map[string]int    `json:"stage_completions"`
	OptionPicks      map[string]int    `json:"option_picks"`
	CycleResets      int               `json:"cycle_resets"`
	LevelUps         int               `json:"level_ups"`
	PanelSwitches    int               `json:"panel_switches"`
	AvgDecisions     float64           `json:"avg_decisions_per_session"`
}

// CalculateStats computes gameplay stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:           since.Format("2006-01-02"),
		EventCounts:      make(map[EventType]int),
		PointsBySource:   make(map[string]int),
		StageCompletions: make(map[string]int),
		OptionPicks:      make(map[string]int),
	}

	sessions := map[string]bool{}
	decisions := 0

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}
		if sid, ok := metadata[KeySession].(string); ok && sid != "" {
			sessions[sid] = true
		}

		switch event.Type {
		case EventPointsAwarded:
			pts := intValue(metadata[KeyPoints])
			stats.TotalPoints += pts
			if src, ok := metadata[KeySource].(string); ok {
				stats.PointsBySource[src] += pts
			}
		case EventStageCompleted:
			if stage, ok := metadata[KeyStage].(string); ok {
				stats.StageCompletions[stage]++
			}
		case EventDecisionMade:
			decisions++
			if opt, ok := metadata[KeyOption].(string); ok {
				stats.OptionPicks[opt]++
			}
		case EventCycleReset:
			stats.CycleResets++
		case EventLevelUp:
			stats.LevelUps++
		case EventPanelSwitched:
			stats.PanelSwitches++
		}
	}

	stats.Sessions = len(sessions)
	if stats.Sessions > 0 {
		stats.AvgDecisions = float64(decisions) / float64(stats.Sessions)
	}

	return stats, nil
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
