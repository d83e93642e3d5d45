// Package board models the bring-up side of the device: the immutable
// startup configuration, peripheral acquisition, pin assignment, the
// status LED and the millisecond delay service. The streaming core treats
// all of this as collaborator preconditions.
package board

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/ramenspazz/Pico-I2S/picoi2s/i2s"
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

// Pins assigns the three output lines plus the status indicator.
type Pins struct {
	Data      pio.Pin
	BitClock  pio.Pin
	WordClock pio.Pin
	LED       pio.Pin
}

// Config is the complete startup configuration. It is constructed once,
// validated, and never mutated after the sequencers start; there is no
// runtime reconfiguration surface.
type Config struct {
	// BaseClockHz is the system clock feeding the sequencer dividers.
	BaseClockHz float32

	// Rate selects the word-clock frequency from the supported set.
	Rate i2s.SampleRate

	// ToneHz, TableSize and Amplitude shape the synthesized table. The
	// table must hold a whole number of tone periods at the word-clock
	// rate, and Amplitude must stay strictly below the 24-bit ceiling.
	ToneHz    float32
	TableSize int
	Amplitude int32

	Pins Pins

	// SettleDelay is the fixed pause between the joint sequencer start and
	// the first word pushed into the FIFO.
	SettleDelay time.Duration
}

// Default returns the firmware's fixed configuration: a 300 Hz tone at
// 192 kHz from a 125 MHz base clock, streamed on GPIO 9/10/11 with the LED
// on GPIO 25.
func Default() Config {
	return Config{
		BaseClockHz: 125e6,
		Rate:        i2s.Rate192kHz,
		ToneHz:      300.0,
		TableSize:   1920,
		Amplitude:   0x6FFFFF,
		Pins: Pins{
			Data:      9,
			BitClock:  10,
			WordClock: 11,
			LED:       25,
		},
		SettleDelay: 500 * time.Millisecond,
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("baseclock", def.BaseClockHz)
	v.SetDefault("samplerate", def.Rate.String())
	v.SetDefault("frequency", def.ToneHz)
	v.SetDefault("tablesize", def.TableSize)
	v.SetDefault("amplitude", def.Amplitude)
	v.SetDefault("settledelay", def.SettleDelay)
	v.SetDefault("pins.data", int(def.Pins.Data))
	v.SetDefault("pins.bitclock", int(def.Pins.BitClock))
	v.SetDefault("pins.wordclock", int(def.Pins.WordClock))
	v.SetDefault("pins.led", int(def.Pins.LED))
}

// Load builds a Config from defaults overlaid with an optional config
// file. A missing file with an empty path is fine; a named file that
// cannot be read is a startup error.
func Load(configFilePath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config %s: %w", configFilePath, err)
		}
		slog.Info("loaded configuration", "path", configFilePath)
	}

	rate, err := i2s.ParseRate(v.GetString("samplerate"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseClockHz: float32(v.GetFloat64("baseclock")),
		Rate:        rate,
		ToneHz:      float32(v.GetFloat64("frequency")),
		TableSize:   v.GetInt("tablesize"),
		Amplitude:   v.GetInt32("amplitude"),
		Pins: Pins{
			Data:      pio.Pin(v.GetInt("pins.data")),
			BitClock:  pio.Pin(v.GetInt("pins.bitclock")),
			WordClock: pio.Pin(v.GetInt("pins.wordclock")),
			LED:       pio.Pin(v.GetInt("pins.led")),
		},
		SettleDelay: v.GetDuration("settledelay"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the hardware cannot honor. It runs
// before any sequencer is touched so a bad setup halts startup instead of
// producing a silently wrong signal.
func (c Config) Validate() error {
	if c.BaseClockHz <= 0 {
		return fmt.Errorf("base clock must be positive, got %v", c.BaseClockHz)
	}
	if c.TableSize <= 0 {
		return fmt.Errorf("table size must be positive, got %d", c.TableSize)
	}
	if c.Amplitude <= 0 || c.Amplitude >= i2s.AmplitudeCeiling {
		return fmt.Errorf("amplitude %#x must be in (0, %#x): headroom below the 24-bit ceiling protects the sign bit",
			c.Amplitude, int32(i2s.AmplitudeCeiling))
	}
	if c.ToneHz <= 0 {
		return fmt.Errorf("tone frequency must be positive, got %v", c.ToneHz)
	}

	pins := []pio.Pin{c.Pins.Data, c.Pins.BitClock, c.Pins.WordClock, c.Pins.LED}
	seen := make(map[pio.Pin]bool)
	for _, p := range pins {
		if p == pio.NoPin {
			return fmt.Errorf("all four pins must be assigned")
		}
		if seen[p] {
			return fmt.Errorf("pin %d assigned to more than one function", p)
		}
		seen[p] = true
	}
	return nil
}
