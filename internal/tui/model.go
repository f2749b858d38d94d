package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ecolearn/internal/explorer"
	"ecolearn/internal/panel"
	"ecolearn/internal/watercycle"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const barWidth = 10

type model struct {
	explorer *explorer.Explorer
	status   string
	width    int
}

func newModel(e *explorer.Explorer) model {
	return model{explorer: e, status: "tab switches panels, q quits"}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.switchPanel(1)
		case "shift+tab":
			m.switchPanel(-1)
		default:
			m.panelKey(key)
		}
	}
	return m, nil
}

func (m *model) switchPanel(step int) {
	next := panel.Next(m.explorer.ActivePanel(), step)
	if _, err := m.explorer.SwitchPanel(next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *model) panelKey(key string) {
	before := m.explorer.Profile()
	switch m.explorer.ActivePanel() {
	case panel.WaterCycle:
		if key == "r" {
			if _, err := m.explorer.ResetWaterCycle(); err != nil {
				m.status = "Finish every stage before resetting."
				return
			}
			m.status = "Water cycle reset."
			return
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 1 || i > len(watercycle.Stages) {
			return
		}
		stage := watercycle.Stages[i-1]
		res, err := m.explorer.AdvanceStage(stage)
		if err != nil {
			m.status = err.Error()
			return
		}
		switch {
		case res.CompletedNow:
			m.status = fmt.Sprintf("%s complete!", stage.Details().Title)
		case !res.Applied:
			m.status = fmt.Sprintf("%s is already complete.", stage.Details().Title)
		default:
			m.status = stage.Details().Hint
		}
	case panel.GlobalWarming:
		i, err := strconv.Atoi(key)
		if err != nil || i < 1 {
			return
		}
		view, err := m.explorer.Choose(0, i-1)
		if err != nil {
			return
		}
		m.status = fmt.Sprintf("You chose %s.", view.Climate.Challenges[0].Options[i-1].Label)
	default:
		return
	}

	after := m.explorer.Profile()
	if gained := after.Points - before.Points; gained > 0 {
		m.status += fmt.Sprintf(" +%d eco coins", gained)
	}
	if after.Level > before.Level {
		m.status += fmt.Sprintf(" Level up! You reached level %d.", after.Level)
	}
}

func (m model) View() string {
	v := m.explorer.Snapshot()

	header := headerStyle.Render(fmt.Sprintf("EcoLearn: Environmental Explorer   🌍 Level: %d   🍃 Eco Coins: %d",
		v.Profile.Level, v.Profile.Points))

	var tabs []string
	for _, t := range panel.Tabs() {
		label := t.Icon + " " + t.Label
		if t.ID == v.ActivePanel {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	var body string
	switch {
	case v.WaterCycle != nil:
		body = renderWaterCycle(v.WaterCycle)
	case v.Climate != nil:
		body = renderClimate(v.Climate)
	case v.Placeholder != nil:
		body = v.Placeholder.Title + "\n\n" + v.Placeholder.Headline + "\n" + v.Placeholder.Body
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		panelStyle.Render(body),
		statusStyle.Render(m.status),
		dimStyle.Render("tab/shift+tab panels · q quit"),
	)
}

func renderWaterCycle(st *watercycle.State) string {
	var b strings.Builder
	b.WriteString("Water Cycle Adventure\n\n")
	for i, s := range st.Stages {
		d := s.Stage.Details()
		filled := s.Percent() * barWidth / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		action := fmt.Sprintf("[%d] %s", i+1, d.ActionText)
		if s.Completed {
			action = completedStyle.Render("Completed")
		}
		fmt.Fprintf(&b, "%s %-14s %s %d/%d  %s\n", d.Icon, d.Title, bar, s.Progress, s.Goal, action)
		if !s.Completed {
			b.WriteString(dimStyle.Render("   "+d.Hint) + "\n")
		}
	}
	fmt.Fprintf(&b, "\nWater Drops Collected: %d\n", st.DropsCollected)
	fmt.Fprintf(&b, "Stages Completed: %d / %d", st.CompletedCount, len(st.Stages))
	if st.AllCompleted {
		b.WriteString("\n[r] Reset Water Cycle 🔄")
	}
	return b.String()
}

func renderClimate(c *explorer.ClimateView) string {
	var b strings.Builder
	b.WriteString("Climate Crisis Simulator\n\n")
	fmt.Fprintf(&b, "Carbon Level %s%%   Global Temperature %s°C   Ecosystem Health %s%%\n",
		num(c.Scenario.CarbonLevel), num(c.Scenario.Temperature), num(c.Scenario.EcosystemHealth))
	for _, ch := range c.Challenges {
		fmt.Fprintf(&b, "\n%s\n%s\n", ch.Title, dimStyle.Render(ch.Description))
		for i, opt := range ch.Options {
			fmt.Fprintf(&b, "  [%d] %s (+%d)\n", i+1, opt.Label, opt.PointsAwarded)
		}
	}
	fmt.Fprintf(&b, "\nDecisions made: %d", c.Decisions)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Run drives e from the terminal until the user quits or ctx is done.
func Run(ctx context.Context, e *explorer.Explorer, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newModel(e), opts...)
	_, err := p.Run()
	return err
}
