package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ramenspazz/Pico-I2S/picoi2s/dac"
)

func TestHeadlessBackendQuitsAtBudget(t *testing.T) {
	quit := 0
	h := NewHeadlessBackend(3)
	require.NoError(t, h.Init(Config{
		SampleRateHz: 192000,
		Callbacks:    Callbacks{OnQuit: func() { quit++ }},
	}))

	block := &Block{Frames: make([]dac.Frame, 10)}
	for i := 0; i < 3; i++ {
		require.NoError(t, h.Update(block))
	}

	assert.Equal(t, 1, quit, "quit fires exactly once, at the budget")
	assert.Equal(t, uint64(30), h.Frames())
	assert.NoError(t, h.Cleanup())
}

func TestHeadlessBackendWithoutBudgetNeverQuits(t *testing.T) {
	quit := false
	h := NewHeadlessBackend(0)
	require.NoError(t, h.Init(Config{Callbacks: Callbacks{OnQuit: func() { quit = true }}}))

	block := &Block{Frames: make([]dac.Frame, 1)}
	for i := 0; i < 500; i++ {
		require.NoError(t, h.Update(block))
	}
	assert.False(t, quit)
}
