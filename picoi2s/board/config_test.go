package board

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ramenspazz/Pico-I2S/picoi2s/i2s"
)

func TestDefaultConfigMatchesFirmwareConstants(t *testing.T) {
	cfg := Default()
	assert.Equal(t, float32(125e6), cfg.BaseClockHz)
	assert.Equal(t, i2s.Rate192kHz, cfg.Rate)
	assert.Equal(t, float32(300.0), cfg.ToneHz)
	assert.Equal(t, 1920, cfg.TableSize)
	assert.Equal(t, int32(0x6FFFFF), cfg.Amplitude)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.yaml")
	content := `
samplerate: "48000"
frequency: 400
tablesize: 960
amplitude: 0x400000
settledelay: 100ms
pins:
  data: 2
  bitclock: 3
  wordclock: 4
  led: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, i2s.Rate48kHz, cfg.Rate)
	assert.Equal(t, float32(400), cfg.ToneHz)
	assert.Equal(t, 960, cfg.TableSize)
	assert.Equal(t, int32(0x400000), cfg.Amplitude)
	assert.Equal(t, 100*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, uint8(2), uint8(cfg.Pins.Data))
	assert.Equal(t, uint8(5), uint8(cfg.Pins.LED))
	// Unset keys keep their defaults.
	assert.Equal(t, float32(125e6), cfg.BaseClockHz)
}

func TestLoadRejectsMissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"amplitude at ceiling", func(c *Config) { c.Amplitude = i2s.AmplitudeCeiling }},
		{"amplitude zero", func(c *Config) { c.Amplitude = 0 }},
		{"pin collision", func(c *Config) { c.Pins.BitClock = c.Pins.Data }},
		{"unassigned pin", func(c *Config) { c.Pins.WordClock = 0xFF }},
		{"zero table", func(c *Config) { c.TableSize = 0 }},
		{"zero base clock", func(c *Config) { c.BaseClockHz = 0 }},
		{"negative tone", func(c *Config) { c.ToneHz = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAcquireIsSingleShot(t *testing.T) {
	b, err := Acquire(Default())
	require.NoError(t, err)
	defer b.Release()

	_, err = Acquire(Default())
	assert.Error(t, err, "a second take must fail like hardware peripherals do")
}

func TestAcquireRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Amplitude = i2s.AmplitudeCeiling
	_, err := Acquire(cfg)
	require.Error(t, err)

	// A failed acquire must not consume the peripherals.
	b, err := Acquire(Default())
	require.NoError(t, err)
	b.Release()
}
