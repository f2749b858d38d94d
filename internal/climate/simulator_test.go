package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOption_RenewableEnergyFromInitialState(t *testing.T) {
	var awarded []int
	sim := New(func(p int) { awarded = append(awarded, p) })

	opt, sc, err := sim.Choose(0, 0)
	require.NoError(t, err)

	assert.Equal(t, "Renewable Energy", opt.Label)
	assert.Equal(t, Scenario{CarbonLevel: 80, Temperature: 14, EcosystemHealth: 100}, sc)
	assert.Equal(t, sc, sim.Scenario())
	assert.Equal(t, []int{50}, awarded)
	assert.Equal(t, 1, sim.Decisions())
}

func TestSelectOption_ForestConservation(t *testing.T) {
	sim := New(nil)
	_, sc, err := sim.Choose(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Scenario{CarbonLevel: 85, Temperature: 14.5, EcosystemHealth: 100}, sc)
}

func TestSelectOption_CarbonNeverBelowZero(t *testing.T) {
	sim := New(nil)
	for i := 0; i < 10; i++ {
		sc := sim.SelectOption(DecisionOption{Impact: Impact{CarbonDelta: -20}})
		assert.GreaterOrEqual(t, sc.CarbonLevel, 0.0)
	}
	assert.Equal(t, 0.0, sim.Scenario().CarbonLevel)
}

func TestSelectOption_EcosystemCappedButNotFloored(t *testing.T) {
	sim := New(nil)
	for i := 0; i < 5; i++ {
		sc := sim.SelectOption(DecisionOption{Impact: Impact{EcosystemDelta: 25}})
		assert.LessOrEqual(t, sc.EcosystemHealth, 100.0)
	}

	sc := sim.SelectOption(DecisionOption{Impact: Impact{EcosystemDelta: -150}})
	assert.Equal(t, -50.0, sc.EcosystemHealth)
}

func TestSelectOption_TemperatureUnclamped(t *testing.T) {
	sim := New(nil)
	sc := sim.SelectOption(DecisionOption{Impact: Impact{TempDelta: -40}})
	assert.Equal(t, -25.0, sc.Temperature)
	sc = sim.SelectOption(DecisionOption{Impact: Impact{TempDelta: 100}})
	assert.Equal(t, 75.0, sc.Temperature)
}

func TestChoose_UnknownOption(t *testing.T) {
	var awarded []int
	sim := New(func(p int) { awarded = append(awarded, p) })

	for _, idx := range [][2]int{{1, 0}, {-1, 0}, {0, 2}, {0, -1}} {
		_, sc, err := sim.Choose(idx[0], idx[1])
		assert.ErrorIs(t, err, ErrUnknownOption)
		assert.Equal(t, InitialScenario(), sc)
	}
	assert.Empty(t, awarded)
	assert.Equal(t, 0, sim.Decisions())
}

func TestChallenges_ReturnsCopy(t *testing.T) {
	cs := Challenges()
	require.Len(t, cs, 1)
	require.Len(t, cs[0].Options, 2)

	cs[0].Options[0].PointsAwarded = 9999
	opt, err := Option(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, opt.PointsAwarded)
}
