package board

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

// taken guards the singleton peripheral set, like the hardware's one-shot
// peripheral take at reset.
var taken atomic.Bool

// Board owns the acquired peripherals: the sequencer block with its pin
// bank, the status LED and the delay service.
type Board struct {
	cfg Config
	pio *pio.PIO
}

// Acquire validates the configuration, takes the peripherals and assigns
// pin functions. It can succeed at most once per process; a second take is
// the unrecoverable startup failure class and errors immediately. Release
// exists so tests can hand the peripherals back.
func Acquire(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !taken.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("peripherals already taken")
	}

	slog.Info("peripherals acquired",
		"base_clock_hz", cfg.BaseClockHz,
		"data_pin", cfg.Pins.Data,
		"bck_pin", cfg.Pins.BitClock,
		"lrck_pin", cfg.Pins.WordClock,
		"led_pin", cfg.Pins.LED)

	return &Board{
		cfg: cfg,
		pio: pio.New(),
	}, nil
}

// Release hands the peripherals back. Only tests use this; the device
// itself holds them until power loss.
func (b *Board) Release() {
	taken.Store(false)
}

// PIO returns the board's sequencer block.
func (b *Board) PIO() *pio.PIO {
	return b.pio
}

// Config returns the immutable startup configuration.
func (b *Board) Config() Config {
	return b.cfg
}

// SetLED drives the status indicator.
func (b *Board) SetLED(on bool) {
	b.pio.Pins().Set(b.cfg.Pins.LED, on, b.pio.Tick())
}

// Delay is the millisecond delay service, used once after the sequencer
// start to let the DAC's PLL settle.
func (b *Board) Delay(d time.Duration) {
	time.Sleep(d)
}
