package explorer

import (
	"errors"
	"log"
	"sync"
	"time"

	"ecolearn/internal/climate"
	"ecolearn/internal/config"
	"ecolearn/internal/httpmw"
	"ecolearn/internal/panel"
	"ecolearn/internal/progress"
	"ecolearn/internal/telemetry"
	"ecolearn/internal/watercycle"
)

var ErrPanelInactive = errors.New("panel is not active")

// View is an immutable snapshot of an Explorer for renderers.
type View struct {
	SessionID   string             `json:"sessionId,omitempty"`
	Profile     progress.Profile   `json:"profile"`
	ActivePanel panel.ID           `json:"activePanel"`
	WaterCycle  *watercycle.State  `json:"waterCycle,omitempty"`
	Climate     *ClimateView       `json:"climate,omitempty"`
	Placeholder *panel.Placeholder `json:"placeholder,omitempty"`
}

type ClimateView struct {
	Scenario   climate.Scenario    `json:"scenario"`
	Challenges []climate.Challenge `json:"challenges"`
	Decisions  int                 `json:"decisions"`
}

// Explorer is the container for one learner. It owns the progress tracker
// and mounts only the simulator of the active panel; switching panels
// drops the previous simulator's state. All methods are safe for
// concurrent use.
type Explorer struct {
	mu sync.Mutex

	id       string
	balance  config.Balance
	recorder telemetry.Recorder
	logger   *log.Logger

	tracker *progress.Tracker
	active  panel.ID
	water   *watercycle.Simulator
	climate *climate.Simulator
}

type Options struct {
	ID       string
	Balance  config.Balance
	Recorder telemetry.Recorder
	Logger   *log.Logger
}

func New(opts Options) *Explorer {
	opts.Balance.ApplyDefaults()
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	e := &Explorer{
		id:       opts.ID,
		balance:  opts.Balance,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		tracker:  progress.NewTracker(opts.Balance.ExperiencePerLevel),
	}
	e.mount(panel.Default)
	return e
}

func (e *Explorer) ID() string {
	return e.id
}

// mount replaces the active simulator with a freshly initialized one.
func (e *Explorer) mount(id panel.ID) {
	e.active = id
	e.water = nil
	e.climate = nil
	switch id {
	case panel.WaterCycle:
		e.water = watercycle.New(e.balance.StageGoal, e.balance.StageReward, func(points int) {
			e.onComplete(points, panel.WaterCycle)
		})
	case panel.GlobalWarming:
		e.climate = climate.New(func(points int) {
			e.onComplete(points, panel.GlobalWarming)
		})
	}
}

// OnComplete awards points on behalf of a child panel.
func (e *Explorer) OnComplete(points int, source panel.ID) progress.Award {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onComplete(points, source)
}

func (e *Explorer) onComplete(points int, source panel.ID) progress.Award {
	award := e.tracker.AwardPoints(points)
	if !award.Applied {
		return award
	}
	e.record(telemetry.EventPointsAwarded, telemetry.EventMetadata{
		telemetry.KeySource: string(source),
		telemetry.KeyPoints: points,
	})
	if award.LevelUp {
		e.record(telemetry.EventLevelUp, telemetry.EventMetadata{
			telemetry.KeyLevel: award.Profile.Level,
		})
	}
	return award
}

func (e *Explorer) record(et telemetry.EventType, md telemetry.EventMetadata) {
	if md == nil {
		md = telemetry.EventMetadata{}
	}
	if e.id != "" {
		md[telemetry.KeySession] = e.id
	}
	// Sink failures are logged; gameplay carries on.
	if err := e.recorder.RecordEvent(et, md); err != nil {
		httpmw.LogJSON(e.logger, map[string]any{
			"ts":      time.Now().UTC().Format(time.RFC3339Nano),
			"level":   "warn",
			"msg":     "event_record_failed",
			"session": e.id,
			"event":   string(et),
			"error":   err.Error(),
		})
	}
}

// SwitchPanel activates id. Selecting the already active panel keeps its
// state.
func (e *Explorer) SwitchPanel(id panel.ID) (View, error) {
	id, err := panel.Parse(string(id))
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if id != e.active {
		from := e.active
		e.mount(id)
		e.record(telemetry.EventPanelSwitched, telemetry.EventMetadata{
			telemetry.KeyPanel: string(id),
			"from":             string(from),
		})
	}
	return e.snapshotLocked(), nil
}

type AdvanceResult struct {
	watercycle.Advance
	View View `json:"view"`
}

func (e *Explorer) AdvanceStage(stage watercycle.Stage) (AdvanceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.water == nil {
		return AdvanceResult{}, ErrPanelInactive
	}
	res, err := e.water.Advance(stage)
	if err != nil {
		return AdvanceResult{}, err
	}
	if res.Applied {
		e.record(telemetry.EventStageAdvanced, telemetry.EventMetadata{
			telemetry.KeyStage: stage.String(),
		})
	}
	if res.CompletedNow {
		e.record(telemetry.EventStageCompleted, telemetry.EventMetadata{
			telemetry.KeyStage:  stage.String(),
			telemetry.KeyPoints: e.water.Reward(),
		})
	}
	return AdvanceResult{Advance: res, View: e.snapshotLocked()}, nil
}

func (e *Explorer) ResetWaterCycle() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.water == nil {
		return View{}, ErrPanelInactive
	}
	if err := e.water.Reset(); err != nil {
		return View{}, err
	}
	e.record(telemetry.EventCycleReset, nil)
	return e.snapshotLocked(), nil
}

func (e *Explorer) Choose(challenge, option int) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.climate == nil {
		return View{}, ErrPanelInactive
	}
	opt, _, err := e.climate.Choose(challenge, option)
	if err != nil {
		return View{}, err
	}
	e.record(telemetry.EventDecisionMade, telemetry.EventMetadata{
		telemetry.KeyOption: opt.Label,
		telemetry.KeyPoints: opt.PointsAwarded,
	})
	return e.snapshotLocked(), nil
}

func (e *Explorer) Profile() progress.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Profile()
}

func (e *Explorer) ActivePanel() panel.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Explorer) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Explorer) snapshotLocked() View {
	v := View{
		SessionID:   e.id,
		Profile:     e.tracker.Profile(),
		ActivePanel: e.active,
	}
	switch {
	case e.water != nil:
		st := e.water.State()
		v.WaterCycle = &st
	case e.climate != nil:
		v.Climate = &ClimateView{
			Scenario:   e.climate.Scenario(),
			Challenges: climate.Challenges(),
			Decisions:  e.climate.Decisions(),
		}
	default:
		ph := panel.ARPlaceholder()
		v.Placeholder = &ph
	}
	return v
}
