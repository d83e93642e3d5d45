// Package wavcapture writes the decoded stereo stream to a WAV file, so a
// simulated run can be listened to or inspected with ordinary audio tools.
package wavcapture

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend"
)

// Backend captures decoded frames into a 16-bit stereo WAV file. The
// decoded samples are left-justified 32-bit values; the top 16 bits are
// what a 16-bit capture keeps.
type Backend struct {
	path      string
	maxFrames uint64

	callbacks backend.Callbacks
	file      *os.File
	encoder   *wav.Encoder
	format    *goaudio.Format

	frameCount uint64
}

// New creates a capture backend writing to path. maxFrames bounds the
// capture length; zero captures until interrupted.
func New(path string, maxFrames uint64) *Backend {
	return &Backend{path: path, maxFrames: maxFrames}
}

func (b *Backend) Init(config backend.Config) error {
	b.callbacks = config.Callbacks

	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("could not create capture file: %w", err)
	}
	b.file = f
	b.format = &goaudio.Format{
		NumChannels: 2,
		SampleRate:  config.SampleRateHz,
	}
	b.encoder = wav.NewEncoder(f, config.SampleRateHz, 16, 2, 1)

	slog.Info("capturing to WAV", "path", b.path, "sample_rate", config.SampleRateHz, "max_frames", b.maxFrames)
	return nil
}

func (b *Backend) Update(block *backend.Block) error {
	if len(block.Frames) == 0 {
		return nil
	}

	data := make([]int, 0, len(block.Frames)*2)
	for _, fr := range block.Frames {
		data = append(data, int(int16(fr.Left>>16)), int(int16(fr.Right>>16)))
	}

	if err := b.encoder.Write(&goaudio.IntBuffer{
		Format:         b.format,
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		return fmt.Errorf("capture write failed: %w", err)
	}

	b.frameCount += uint64(len(block.Frames))
	if b.maxFrames > 0 && b.frameCount >= b.maxFrames {
		slog.Info("capture complete", "frames", b.frameCount, "path", b.path)
		if b.callbacks.OnQuit != nil {
			b.callbacks.OnQuit()
		}
	}
	return nil
}

func (b *Backend) Cleanup() error {
	if b.encoder == nil {
		return nil
	}
	if err := b.encoder.Close(); err != nil {
		return fmt.Errorf("could not finalize capture: %w", err)
	}
	return b.file.Close()
}
