package universe

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutopilotNeedsTwoSouls(t *testing.T) {
	s, _ := newTestStore(t, nil)
	a := NewAutopilot(s, rand.New(rand.NewSource(1)), 0, 10)

	assert.Equal(t, ActionNone, a.Step())
	s.AddSoul(soulSpec())
	assert.Equal(t, ActionNone, a.Step())
}

func TestAutopilotRunCountsInteractions(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.SettleWithRandomData(4)
	a := NewAutopilot(s, rand.New(rand.NewSource(3)), 0, 50)

	steps, err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 50, steps)
	assert.GreaterOrEqual(t, s.State().TotalInteractions, 50)
}

func TestAutopilotNeverTargetsItself(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.SettleWithRandomData(2)
	a := NewAutopilot(s, rand.New(rand.NewSource(5)), 0, 200)

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	for _, soul := range s.State().Souls {
		assert.NotContains(t, soul.Connections, soul.ID)
	}
}

func TestAutopilotStopsOnCancel(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.SettleWithRandomData(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := NewAutopilot(s, rand.New(rand.NewSource(1)), 0, 0).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, steps)
}
