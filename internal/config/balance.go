package config

import "fmt"

// Balance holds gameplay balance configuration
type Balance struct {
	// Water cycle
	StageGoal   int `yaml:"stage_goal" json:"stage_goal" env:"STAGE_GOAL"`
	StageReward int `yaml:"stage_reward" json:"stage_reward" env:"STAGE_REWARD"`

	// Leveling
	ExperiencePerLevel int `yaml:"experience_per_level" json:"experience_per_level" env:"EXPERIENCE_PER_LEVEL"`
}

// DefaultBalance returns the default balance configuration
func DefaultBalance() Balance {
	return Balance{
		StageGoal:          5,
		StageReward:        30,
		ExperiencePerLevel: 100,
	}
}

func (b *Balance) ApplyDefaults() {
	d := DefaultBalance()
	if b.StageGoal == 0 {
		b.StageGoal = d.StageGoal
	}
	if b.StageReward == 0 {
		b.StageReward = d.StageReward
	}
	if b.ExperiencePerLevel == 0 {
		b.ExperiencePerLevel = d.ExperiencePerLevel
	}
}

func (b Balance) Validate() error {
	if b.StageGoal <= 0 {
		return fmt.Errorf("balance.stage_goal must be positive, got %d", b.StageGoal)
	}
	if b.StageReward <= 0 {
		return fmt.Errorf("balance.stage_reward must be positive, got %d", b.StageReward)
	}
	if b.ExperiencePerLevel <= 0 {
		return fmt.Errorf("balance.experience_per_level must be positive, got %d", b.ExperiencePerLevel)
	}
	return nil
}
