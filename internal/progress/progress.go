package progress

const DefaultExperiencePerLevel = 100

// Profile is the learner's accumulated progression. Points are shown as
// eco coins; experience drives the level.
type Profile struct {
	Points          int `json:"points"`
	Level           int `json:"level"`
	TotalExperience int `json:"totalExperience"`
}

// Award describes the outcome of a single AwardPoints call.
type Award struct {
	Points    int     `json:"points"`
	Applied   bool    `json:"applied"`
	LevelUp   bool    `json:"levelUp"`
	Profile   Profile `json:"profile"`
	PrevLevel int     `json:"prevLevel"`
}

// Tracker owns a Profile for one session. It is not safe for concurrent
// use; the owning container serializes access.
type Tracker struct {
	perLevel int
	p        Profile
}

func NewTracker(experiencePerLevel int) *Tracker {
	if experiencePerLevel <= 0 {
		experiencePerLevel = DefaultExperiencePerLevel
	}
	return &Tracker{
		perLevel: experiencePerLevel,
		p:        Profile{Level: 1},
	}
}

// LevelFor returns floor(experience/perLevel)+1.
func LevelFor(experience, perLevel int) int {
	if perLevel <= 0 {
		perLevel = DefaultExperiencePerLevel
	}
	if experience < 0 {
		experience = 0
	}
	return experience/perLevel + 1
}

func (t *Tracker) Profile() Profile {
	return t.p
}

// AwardPoints adds points to both experience and eco coins and recomputes
// the level. Non-positive awards leave the profile untouched.
func (t *Tracker) AwardPoints(points int) Award {
	prev := t.p.Level
	if points <= 0 {
		return Award{Points: points, Profile: t.p, PrevLevel: prev}
	}
	t.p.TotalExperience += points
	t.p.Points += points
	t.p.Level = LevelFor(t.p.TotalExperience, t.perLevel)
	return Award{
		Points:    points,
		Applied:   true,
		LevelUp:   t.p.Level > prev,
		Profile:   t.p,
		PrevLevel: prev,
	}
}
