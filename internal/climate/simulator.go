package climate

// Simulator is the climate decision mini game. onComplete receives the
// points of every selected option.
type Simulator struct {
	scenario   Scenario
	decisions  int
	onComplete func(points int)
}

func New(onComplete func(points int)) *Simulator {
	return &Simulator{
		scenario:   InitialScenario(),
		onComplete: onComplete,
	}
}

func (s *Simulator) SelectOption(opt DecisionOption) Scenario {
	s.scenario = s.scenario.Apply(opt.Impact)
	s.decisions++
	if s.onComplete != nil {
		s.onComplete(opt.PointsAwarded)
	}
	return s.scenario
}

// Choose selects a catalog option by position.
func (s *Simulator) Choose(challenge, option int) (DecisionOption, Scenario, error) {
	opt, err := Option(challenge, option)
	if err != nil {
		return DecisionOption{}, s.scenario, err
	}
	return opt, s.SelectOption(opt), nil
}

func (s *Simulator) Scenario() Scenario {
	return s.scenario
}

func (s *Simulator) Decisions() int {
	return s.decisions
}
