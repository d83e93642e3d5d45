package backend

import (
	"log/slog"
)

// HeadlessBackend runs the stream without any presentation, for automated
// testing and soak runs. With a block budget it requests shutdown once the
// budget is spent; with a budget of zero it runs until interrupted, like
// the firmware does.
type HeadlessBackend struct {
	config     Config
	callbacks  Callbacks
	blockCount uint64
	maxBlocks  uint64
	frameCount uint64
}

func NewHeadlessBackend(maxBlocks uint64) *HeadlessBackend {
	return &HeadlessBackend{maxBlocks: maxBlocks}
}

func (h *HeadlessBackend) Init(config Config) error {
	h.config = config
	h.callbacks = config.Callbacks

	if h.maxBlocks > 0 {
		slog.Info("running headless", "blocks", h.maxBlocks, "sample_rate", config.SampleRateHz)
	} else {
		slog.Info("running headless until interrupted", "sample_rate", config.SampleRateHz)
	}
	return nil
}

func (h *HeadlessBackend) Update(block *Block) error {
	h.blockCount++
	h.frameCount += uint64(len(block.Frames))

	if h.blockCount%100 == 0 {
		slog.Info("stream progress",
			"blocks", h.blockCount,
			"frames", h.frameCount,
			"table_wraps", block.Wraps,
			"base_ticks", block.Tick)
	}

	if h.maxBlocks > 0 && h.blockCount >= h.maxBlocks {
		slog.Info("block budget spent", "blocks", h.blockCount, "frames", h.frameCount)
		if h.callbacks.OnQuit != nil {
			h.callbacks.OnQuit()
		}
	}
	return nil
}

func (h *HeadlessBackend) Cleanup() error {
	return nil
}

// Frames reports how many decoded frames the backend has seen.
func (h *HeadlessBackend) Frames() uint64 {
	return h.frameCount
}
