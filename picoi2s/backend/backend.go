// Package backend defines the observation surface of the simulated
// device. A backend consumes the blocks the streaming loop produces: the
// frames the DAC model decoded plus the raw pin transitions behind them.
package backend

import (
	"github.com/ramenspazz/Pico-I2S/picoi2s/dac"
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

// TraceEvent is one pin transition, as observed on the sequencer block.
type TraceEvent struct {
	Tick  uint64
	Pin   pio.Pin
	Level bool
}

// Block is one delivery from the streaming loop: a table pass worth of
// decoded frames plus the trace that produced them.
type Block struct {
	// Frames are the stereo frames the DAC model decoded for this block.
	Frames []dac.Frame

	// Trace holds the pin transitions of this block, oldest first.
	Trace []TraceEvent

	// Tick is the block's base-clock tick count at delivery.
	Tick uint64

	// Wraps counts completed passes over the sample table.
	Wraps uint64
}

// Backend consumes blocks. Backends are responsible for:
// - presenting the stream (logging, terminal scope, WAV file, speakers)
// - handling their own platform events (e.g. the scope's quit key)
// - signalling shutdown through the OnQuit callback
type Backend interface {
	// Init configures the backend. Required before the first Update.
	Init(config Config) error

	// Update presents one block. An error aborts streaming.
	Update(block *Block) error

	// Cleanup releases resources when shutting down.
	Cleanup() error
}

// Config holds configuration for backends.
type Config struct {
	// SampleRateHz is the stereo frame rate of the decoded stream.
	SampleRateHz int

	// Pins names the traced lines so backends can label them.
	DataPin, BitClockPin, WordClockPin pio.Pin

	// Callbacks allows backends to communicate with the streamer.
	Callbacks Callbacks
}

// Callbacks allows backends to communicate with the streamer.
type Callbacks struct {
	// OnQuit requests shutdown (frame budget reached, quit key, ...).
	OnQuit func()
}
