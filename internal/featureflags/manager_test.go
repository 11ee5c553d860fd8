package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
	assert.Empty(t, m.Invalid())
}

func TestEnabled_Rollouts(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,capped=250%")

	assert.True(t, m.Enabled("always", 0), "full rollout includes anonymous callers")
	assert.False(t, m.Enabled("never", 1))
	assert.True(t, m.Enabled("capped", 9))
	assert.False(t, m.Enabled("canary", 0), "partial rollout requires a customer")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}

	in := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			in++
		}
	}
	assert.InDelta(t, 250, in, 80, "roughly a quarter of customers")
}

func TestNewManager_RecordsInvalidEntries(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=maybe,w=-5%,=on ")

	assert.True(t, m.Enabled("x", 0))
	assert.Equal(t, []string{"bad", "z=maybe", "w=-5%", "=on"}, m.Invalid())
}

func TestStates(t *testing.T) {
	m := NewManager("Zeta=off,FEED_SECTION_ISOLATION=on")

	states := m.States(7)
	require.Len(t, states, 2)
	assert.Equal(t, State{
		Name:        FeedSectionIsolation,
		Value:       "on",
		Enabled:     true,
		Known:       true,
		Description: Known[FeedSectionIsolation],
	}, states[0])
	assert.Equal(t, State{Name: "zeta", Value: "off"}, states[1])

	unset := NewManager("").States(7)
	require.Len(t, unset, len(Known))
	assert.False(t, unset[0].Enabled)
	assert.Empty(t, unset[0].Value)
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(FeedSectionIsolation, 1))
	assert.Empty(t, m.Invalid())
	assert.Len(t, m.States(1), len(Known))
}
