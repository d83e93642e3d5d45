// Package picoi2s wires the device together: it brings the board up in
// the one valid order, phase-locks the two sequencers with a joint start,
// and then streams the encoded sample table into the data machine's FIFO
// forever.
package picoi2s

import (
	"fmt"
	"log/slog"

	"github.com/ramenspazz/Pico-I2S/picoi2s/backend"
	"github.com/ramenspazz/Pico-I2S/picoi2s/board"
	"github.com/ramenspazz/Pico-I2S/picoi2s/dac"
	"github.com/ramenspazz/Pico-I2S/picoi2s/i2s"
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
	"github.com/ramenspazz/Pico-I2S/picoi2s/synth"
	"github.com/ramenspazz/Pico-I2S/picoi2s/timing"
)

const (
	// smData and smWord are the block's machine assignments.
	smDataID = 0
	smWordID = 1

	// stepQuantum is how many base ticks the block advances per poll of a
	// full FIFO. Small enough that a freed slot is picked up promptly,
	// large enough not to drown in call overhead.
	stepQuantum = 32

	// traceLimit caps the per-block transition buffer handed to backends.
	traceLimit = 1 << 15
)

// Streamer owns the configured device and runs the streaming loop.
type Streamer struct {
	cfg   board.Config
	board *board.Board
	blk   *pio.PIO

	smData *pio.StateMachine
	smWord *pio.StateMachine

	table []int32
	words []uint32

	model   *dac.PCM510x
	bk      backend.Backend
	limiter timing.Limiter
	trace   []backend.TraceEvent

	running bool
	wraps   uint64
}

// New performs the configuration half of bring-up, strictly in order:
// peripheral acquisition, pin function assignment, program installation
// into both sequencers, divisor configuration, then table synthesis and
// encoding. Any failure is a fatal startup error; nothing is retried.
func New(cfg board.Config, bk backend.Backend, limiter timing.Limiter) (*Streamer, error) {
	b, err := board.Acquire(cfg)
	if err != nil {
		return nil, err
	}
	// Later bring-up failures are fatal for the process on hardware; here
	// the peripherals go back so the next test can take them.
	fail := func(err error) (*Streamer, error) {
		b.Release()
		return nil, err
	}

	s := &Streamer{
		cfg:     cfg,
		board:   b,
		blk:     b.PIO(),
		bk:      bk,
		limiter: limiter,
	}
	s.smData = s.blk.StateMachine(smDataID)
	s.smWord = s.blk.StateMachine(smWordID)

	// The pin trace fans out to the DAC model and the backend buffer.
	s.model = dac.New(cfg.Pins.Data, cfg.Pins.BitClock, cfg.Pins.WordClock)
	s.blk.Pins().SetTrace(s.onPinChange)

	dataProg := pio.DataProgram(cfg.Pins.Data, cfg.Pins.BitClock)
	wordProg := pio.WordClockProgram(cfg.Pins.WordClock)
	if err := s.smData.Install(dataProg); err != nil {
		return fail(fmt.Errorf("installing data program: %w", err))
	}
	if err := s.smWord.Install(wordProg); err != nil {
		return fail(fmt.Errorf("installing word-clock program: %w", err))
	}

	wordClock, bitClock := cfg.Rate.Clocks()
	bckDiv, err := pio.ComputeDivisor(cfg.BaseClockHz, dataProg.CyclesPerTransition(), bitClock)
	if err != nil {
		return fail(fmt.Errorf("data/bit-clock divisor: %w", err))
	}
	lrckDiv, err := pio.ComputeDivisor(cfg.BaseClockHz, wordProg.CyclesPerTransition(), wordClock)
	if err != nil {
		return fail(fmt.Errorf("word-clock divisor: %w", err))
	}
	if err := s.smData.Configure(bckDiv); err != nil {
		return fail(err)
	}
	if err := s.smWord.Configure(lrckDiv); err != nil {
		return fail(err)
	}

	s.table, err = synth.Generate(cfg.TableSize, cfg.ToneHz, wordClock, cfg.Amplitude)
	if err != nil {
		return fail(fmt.Errorf("building sample table: %w", err))
	}
	s.words = make([]uint32, len(s.table))
	for i, sample := range s.table {
		s.words[i] = i2s.Encode(sample, true)
	}

	slog.Info("streamer configured",
		"rate", cfg.Rate.String(),
		"tone_hz", cfg.ToneHz,
		"table_size", cfg.TableSize,
		"bck_divisor", bckDiv.String(),
		"lrck_divisor", lrckDiv.String())
	return s, nil
}

// Run completes startup (status LED, the atomic joint start of both
// sequencers, the fixed settle delay) and enters the streaming loop. On
// hardware this loop never returns; here it returns when the backend
// requests shutdown or fails.
func (s *Streamer) Run() error {
	s.board.SetLED(true)
	if err := s.blk.StartGroup(smDataID, smWordID); err != nil {
		return fmt.Errorf("joint sequencer start: %w", err)
	}
	s.board.Delay(s.cfg.SettleDelay)

	s.running = true
	for s.running {
		for _, w := range s.words {
			// Queue-full is backpressure, not an error: poll (stepping the
			// autonomous machines, which is what frees a slot) until the
			// word fits. No sample is dropped or reordered.
			for !s.smData.PushWord(w) {
				s.blk.Step(stepQuantum)
			}
		}
		s.wraps++
		if err := s.deliver(); err != nil {
			return err
		}
	}
	return nil
}

// Stop makes Run return after the current table pass. Backends call it
// through their quit callback.
func (s *Streamer) Stop() {
	s.running = false
}

// Close releases the board peripherals. Only tests use it; the device
// holds them until power loss.
func (s *Streamer) Close() {
	s.board.Release()
}

func (s *Streamer) deliver() error {
	block := &backend.Block{
		Frames: s.model.Drain(),
		Trace:  s.trace,
		Tick:   s.blk.Tick(),
		Wraps:  s.wraps,
	}
	s.trace = nil
	if err := s.bk.Update(block); err != nil {
		return fmt.Errorf("backend rejected block: %w", err)
	}
	s.limiter.WaitForNextBlock()
	return nil
}

func (s *Streamer) onPinChange(tick uint64, pin pio.Pin, level bool) {
	s.model.OnPinChange(tick, pin, level)
	if len(s.trace) < traceLimit {
		s.trace = append(s.trace, backend.TraceEvent{Tick: tick, Pin: pin, Level: level})
	}
}
