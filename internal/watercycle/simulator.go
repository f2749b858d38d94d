package watercycle

import "errors"

const (
	DefaultGoal   = 5
	DefaultReward = 30
)

var (
	ErrUnknownStage    = errors.New("unknown water cycle stage")
	ErrCycleIncomplete = errors.New("water cycle is not complete")
)

type StageState struct {
	Stage     Stage `json:"stage"`
	Progress  int   `json:"progress"`
	Goal      int   `json:"goal"`
	Completed bool  `json:"completed"`
}

// Percent is the progress bar fill, 0..100.
func (s StageState) Percent() int {
	if s.Goal <= 0 {
		return 0
	}
	return s.Progress * 100 / s.Goal
}

type State struct {
	DropsCollected int          `json:"dropsCollected"`
	Stages         []StageState `json:"stages"`
	CompletedCount int          `json:"completedCount"`
	AllCompleted   bool         `json:"allCompleted"`
}

// Advance is the outcome of a single Advance call.
type Advance struct {
	Stage        Stage      `json:"stage"`
	Applied      bool       `json:"applied"`
	CompletedNow bool       `json:"completedNow"`
	StageState   StageState `json:"stageState"`
}

// Simulator is the water cycle mini game. onComplete receives the stage
// reward exactly once per stage completion.
type Simulator struct {
	goal       int
	reward     int
	onComplete func(points int)

	drops  int
	stages [stageCount]StageState
}

func New(goal, reward int, onComplete func(points int)) *Simulator {
	if goal <= 0 {
		goal = DefaultGoal
	}
	if reward <= 0 {
		reward = DefaultReward
	}
	s := &Simulator{
		goal:       goal,
		reward:     reward,
		onComplete: onComplete,
	}
	s.reset()
	return s
}

func (s *Simulator) reset() {
	s.drops = 0
	for _, st := range Stages {
		s.stages[st] = StageState{Stage: st, Goal: s.goal}
	}
}

// Advance adds one unit of progress to stage and collects a drop. A stage
// that is already completed is left alone and nothing is counted.
func (s *Simulator) Advance(stage Stage) (Advance, error) {
	if !stage.valid() {
		return Advance{}, ErrUnknownStage
	}
	cur := s.stages[stage]
	if cur.Completed {
		return Advance{Stage: stage, StageState: cur}, nil
	}

	cur.Progress++
	s.drops++
	completedNow := cur.Progress >= cur.Goal
	if completedNow {
		cur.Progress = cur.Goal
		cur.Completed = true
	}
	s.stages[stage] = cur

	if completedNow && s.onComplete != nil {
		s.onComplete(s.reward)
	}
	return Advance{
		Stage:        stage,
		Applied:      true,
		CompletedNow: completedNow,
		StageState:   cur,
	}, nil
}

func (s *Simulator) AllCompleted() bool {
	for _, st := range s.stages {
		if !st.Completed {
			return false
		}
	}
	return true
}

// Reset reinitializes the cycle. It is only available once every stage is
// completed.
func (s *Simulator) Reset() error {
	if !s.AllCompleted() {
		return ErrCycleIncomplete
	}
	s.reset()
	return nil
}

func (s *Simulator) Reward() int {
	return s.reward
}

func (s *Simulator) State() State {
	out := State{
		DropsCollected: s.drops,
		Stages:         make([]StageState, 0, len(s.stages)),
	}
	for _, st := range s.stages {
		if st.Completed {
			out.CompletedCount++
		}
		out.Stages = append(out.Stages, st)
	}
	out.AllCompleted = out.CompletedCount == len(s.stages)
	return out
}
