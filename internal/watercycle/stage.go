package watercycle

import (
	"fmt"
	"strings"
)

// Stage is one phase of the water cycle.
type Stage int

const (
	Evaporation Stage = iota
	Condensation
	Precipitation

	stageCount
)

// Stages lists every stage in display order.
var Stages = [stageCount]Stage{Evaporation, Condensation, Precipitation}

var stageNames = [stageCount]string{
	Evaporation:   "evaporation",
	Condensation:  "condensation",
	Precipitation: "precipitation",
}

func (s Stage) valid() bool {
	return s >= 0 && s < stageCount
}

func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
	return []byte(stageNames[s]), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage maps a stage name to its Stage.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Details is the static presentation copy for a stage.
type Details struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	ActionText  string `json:"actionText"`
	Hint        string `json:"hint"`
}

var stageDetails = [stageCount]Details{
	Evaporation: {
		Title:       "Evaporation",
		Description: "Heat transforms water into vapor",
		Icon:        "☀️",
		ActionText:  "Apply Solar Heat",
		Hint:        "Click to warm up water molecules!",
	},
	Condensation: {
		Title:       "Condensation",
		Description: "Water vapor cools and forms clouds",
		Icon:        "☁️",
		ActionText:  "Cool Water Vapor",
		Hint:        "Click to create cloud formations!",
	},
	Precipitation: {
		Title:       "Precipitation",
		Description: "Water returns to earth as rain or snow",
		Icon:        "🌧️",
		ActionText:  "Release Water Droplets",
		Hint:        "Click to make it rain!",
	},
}

func (s Stage) Details() Details {
	if !s.valid() {
		return Details{}
	}
	return stageDetails[s]
}
