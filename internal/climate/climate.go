package climate

import (
	"errors"
	"fmt"
)

var ErrUnknownOption = errors.New("unknown decision option")

const (
	InitialCarbonLevel     = 100.0
	InitialTemperature     = 15.0
	InitialEcosystemHealth = 100.0

	maxEcosystemHealth = 100.0
)

type Impact struct {
	CarbonDelta    float64 `json:"carbonDelta"`
	TempDelta      float64 `json:"tempDelta"`
	EcosystemDelta float64 `json:"ecosystemDelta"`
}

type DecisionOption struct {
	Label         string `json:"label"`
	Impact        Impact `json:"impact"`
	PointsAwarded int    `json:"pointsAwarded"`
}

type Challenge struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Options     []DecisionOption `json:"options"`
}

// Scenario holds the three tracked metrics. Carbon is floored at zero and
// ecosystem health is capped at 100; temperature is unclamped.
type Scenario struct {
	CarbonLevel     float64 `json:"carbonLevel"`
	Temperature     float64 `json:"temperature"`
	EcosystemHealth float64 `json:"ecosystemHealth"`
}

func InitialScenario() Scenario {
	return Scenario{
		CarbonLevel:     InitialCarbonLevel,
		Temperature:     InitialTemperature,
		EcosystemHealth: InitialEcosystemHealth,
	}
}

// Apply returns the scenario after option's impact.
func (s Scenario) Apply(imp Impact) Scenario {
	return Scenario{
		CarbonLevel:     max(0, s.CarbonLevel+imp.CarbonDelta),
		Temperature:     s.Temperature + imp.TempDelta,
		EcosystemHealth: min(maxEcosystemHealth, s.EcosystemHealth+imp.EcosystemDelta),
	}
}

var challenges = []Challenge{
	{
		Title:       "Reduce Carbon Emissions",
		Description: "Choose strategies to lower carbon output",
		Options: []DecisionOption{
			{
				Label:         "Renewable Energy",
				Impact:        Impact{CarbonDelta: -20, TempDelta: -1, EcosystemDelta: 10},
				PointsAwarded: 50,
			},
			{
				Label:         "Forest Conservation",
				Impact:        Impact{CarbonDelta: -15, TempDelta: -0.5, EcosystemDelta: 20},
				PointsAwarded: 40,
			},
		},
	},
}

// Challenges returns a copy of the static challenge catalog.
func Challenges() []Challenge {
	out := make([]Challenge, len(challenges))
	for i, c := range challenges {
		c.Options = append([]DecisionOption(nil), c.Options...)
		out[i] = c
	}
	return out
}

// Option resolves a catalog option by position.
func Option(challenge, option int) (DecisionOption, error) {
	if challenge < 0 || challenge >= len(challenges) {
		return DecisionOption{}, fmt.Errorf("%w: challenge %d", ErrUnknownOption, challenge)
	}
	opts := challenges[challenge].Options
	if option < 0 || option >= len(opts) {
		return DecisionOption{}, fmt.Errorf("%w: option %d", ErrUnknownOption, option)
	}
	return opts[option], nil
}
