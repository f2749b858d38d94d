package panel

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPanel = errors.New("unknown panel")

// ID selects one of the three tabs.
type ID string

const (
	WaterCycle    ID = "water-cycle"
	GlobalWarming ID = "global-warming"
	ARExplore     ID = "ar-explore"
)

const Default = WaterCycle

type Tab struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var tabs = []Tab{
	{ID: WaterCycle, Label: "Water Cycle", Icon: "💧"},
	{ID: GlobalWarming, Label: "Climate Challenge", Icon: "🌡️"},
	{ID: ARExplore, Label: "AR Explore", Icon: "🔬"},
}

// Tabs returns the tab bar in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabs...)
}

func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range tabs {
		if t.ID == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
}

// Next returns the tab after id, wrapping. step may be negative.
func Next(id ID, step int) ID {
	idx := 0
	for i, t := range tabs {
		if t.ID == id {
			idx = i
			break
		}
	}
	n := len(tabs)
	return tabs[((idx+step)%n+n)%n].ID
}

// Placeholder is the static copy of the augmented-reality panel.
type Placeholder struct {
	Title    string `json:"title"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

func ARPlaceholder() Placeholder {
	return Placeholder{
		Title:    "AR Environmental Explorer",
		Headline: "AR Feature Coming Soon! 🌍🔬",
		Body:     "Get ready to explore environmental systems in augmented reality!",
	}
}
