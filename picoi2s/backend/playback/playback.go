// Package playback presents the decoded stream on the host's speakers,
// standing in for the analog side of the DAC.
package playback

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend"
)

// MonitorGain scales the decoded samples up for monitoring. A 24-bit
// amplitude squeezed into a 16-bit channel slot leaves only the top bits,
// which is nearly inaudible played back raw; the gain is applied with
// saturation and affects monitoring only, never the wire data.
const MonitorGain = 256

// ringCapacity buffers about a quarter second of stereo frames at 192 kHz
// between the control loop and the audio driver callback.
const ringCapacity = 1 << 16

// Backend plays decoded frames through oto. The streaming loop fills a
// ring on its own goroutine; the driver's reader drains it and substitutes
// silence when it runs dry.
type Backend struct {
	callbacks backend.Callbacks

	ctx    *oto.Context
	player *oto.Player

	mu   sync.Mutex
	ring []int16
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config backend.Config) error {
	b.callbacks = config.Callbacks
	b.ring = make([]int16, 0, ringCapacity)

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRateHz,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("could not open audio device: %w", err)
	}
	<-ready

	b.ctx = ctx
	b.player = ctx.NewPlayer(b)
	b.player.Play()

	slog.Info("playback started", "sample_rate", config.SampleRateHz, "monitor_gain", MonitorGain)
	return nil
}

func (b *Backend) Update(block *backend.Block) error {
	if len(block.Frames) == 0 {
		return nil
	}

	b.mu.Lock()
	for _, fr := range block.Frames {
		if len(b.ring)+2 > ringCapacity {
			// The limiter normally keeps production at the audio rate;
			// if the ring still fills, drop the oldest samples.
			b.ring = b.ring[2:]
		}
		b.ring = append(b.ring, amplify(fr.Left), amplify(fr.Right))
	}
	b.mu.Unlock()
	return nil
}

// Read supplies PCM bytes to the audio driver. Runs on oto's goroutine.
func (b *Backend) Read(p []byte) (int, error) {
	b.mu.Lock()
	n := len(p) / 2
	if n > len(b.ring) {
		n = len(b.ring)
	}
	for i := 0; i < n; i++ {
		s := b.ring[i]
		p[2*i] = byte(s)
		p[2*i+1] = byte(s >> 8)
	}
	b.ring = b.ring[n:]
	b.mu.Unlock()

	// Pad with silence rather than starving the driver.
	for i := 2 * n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (b *Backend) Cleanup() error {
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
	return nil
}

// amplify applies the monitor gain with saturation to a left-justified
// decoded sample.
func amplify(leftJustified int32) int16 {
	v := int64(leftJustified>>16) * MonitorGain
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	return int16(v)
}
