package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tab := range Tabs() {
		id, err := Parse(string(tab.ID))
		require.NoError(t, err)
		assert.Equal(t, tab.ID, id)
	}

	id, err := Parse(" Global-Warming ")
	require.NoError(t, err)
	assert.Equal(t, GlobalWarming, id)

	_, err = Parse("ocean")
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestNext_Wraps(t *testing.T) {
	assert.Equal(t, GlobalWarming, Next(WaterCycle, 1))
	assert.Equal(t, ARExplore, Next(GlobalWarming, 1))
	assert.Equal(t, WaterCycle, Next(ARExplore, 1))
	assert.Equal(t, ARExplore, Next(WaterCycle, -1))
	assert.Equal(t, WaterCycle, Next(WaterCycle, 3))
}

func TestTabs_DefaultFirst(t *testing.T) {
	tabs := Tabs()
	require.Len(t, tabs, 3)
	assert.Equal(t, Default, tabs[0].ID)

	tabs[0].Label = "changed"
	assert.Equal(t, "Water Cycle", Tabs()[0].Label)
}
