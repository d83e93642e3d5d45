package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/ramenspazz/Pico-I2S/picoi2s"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend/playback"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend/terminal"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend/wavcapture"
	"github.com/ramenspazz/Pico-I2S/picoi2s/board"
	"github.com/ramenspazz/Pico-I2S/picoi2s/i2s"
	"github.com/ramenspazz/Pico-I2S/picoi2s/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "pico-i2s"
	app.Description = "Simulated RP2040 tone streamer driving a PCM510x stereo DAC over I2S"
	app.Usage = "pico-i2s [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a config file (defaults are the firmware constants)",
		},
		cli.StringFlag{
			Name:  "rate",
			Usage: "Word-clock rate in Hz (32000, 44100, 48000, 96000, 192000, 384000)",
		},
		cli.Float64Flag{
			Name:  "frequency",
			Usage: "Tone frequency in Hz",
		},
		cli.IntFlag{
			Name:  "amplitude",
			Usage: "Sample amplitude, below the 24-bit ceiling",
		},
		cli.Uint64Flag{
			Name:  "blocks",
			Usage: "Number of blocks to stream headless (0 = run until interrupted)",
		},
		cli.StringFlag{
			Name:  "capture",
			Usage: "Capture the decoded stream to a WAV file at this path",
		},
		cli.Float64Flag{
			Name:  "seconds",
			Usage: "Capture length in seconds (with --capture; 0 = until interrupted)",
		},
		cli.BoolFlag{
			Name:  "scope",
			Usage: "Show the three serial lines in a terminal logic analyzer",
		},
		cli.BoolFlag{
			Name:  "play",
			Usage: "Play the decoded stream on the host audio device",
		},
	}
	app.Action = runStreamer

	if err := app.Run(os.Args); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func runStreamer(c *cli.Context) error {
	cfg, err := board.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("rate") {
		rate, err := i2s.ParseRate(c.String("rate"))
		if err != nil {
			return err
		}
		cfg.Rate = rate
	}
	if c.IsSet("frequency") {
		cfg.ToneHz = float32(c.Float64("frequency"))
	}
	if c.IsSet("amplitude") {
		cfg.Amplitude = int32(c.Int("amplitude"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// One block per table pass; live backends pace blocks to the frame rate.
	blockTime := timing.BlockDuration(cfg.TableSize, cfg.Rate.Hz())

	var bk backend.Backend
	var limiter timing.Limiter = timing.NewNoOpLimiter()
	switch {
	case c.Bool("scope"):
		bk = terminal.New()
		limiter = timing.NewTickerLimiter(blockTime)
	case c.Bool("play"):
		bk = playback.New()
		limiter = timing.NewAdaptiveLimiter(blockTime)
	case c.String("capture") != "":
		maxFrames := uint64(c.Float64("seconds") * float64(cfg.Rate.Hz()))
		bk = wavcapture.New(c.String("capture"), maxFrames)
	default:
		bk = backend.NewHeadlessBackend(c.Uint64("blocks"))
	}

	s, err := picoi2s.New(cfg, bk, limiter)
	if err != nil {
		return err
	}

	err = bk.Init(backend.Config{
		SampleRateHz: cfg.Rate.Hz(),
		DataPin:      cfg.Pins.Data,
		BitClockPin:  cfg.Pins.BitClock,
		WordClockPin: cfg.Pins.WordClock,
		Callbacks:    backend.Callbacks{OnQuit: s.Stop},
	})
	if err != nil {
		return fmt.Errorf("backend init: %w", err)
	}

	runErr := s.Run()
	if cleanupErr := bk.Cleanup(); cleanupErr != nil && runErr == nil {
		runErr = cleanupErr
	}
	return runErr
}
