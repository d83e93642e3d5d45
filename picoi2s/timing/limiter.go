// Package timing paces the simulation against wall-clock time for the
// backends that present audio or waveforms live. Headless streaming runs
// unpaced.
package timing

import "time"

// Limiter controls how fast the streaming loop hands blocks to a backend.
type Limiter interface {
	// WaitForNextBlock blocks until it's time for the next block.
	// Returns immediately if timing is behind schedule.
	WaitForNextBlock()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextBlock() {}
func (n *noOpLimiter) Reset()            {}

// BlockDuration returns the wall-clock span of one block of frames at the
// given frame rate.
func BlockDuration(framesPerBlock, frameRateHz int) time.Duration {
	return time.Duration(float64(time.Second) * float64(framesPerBlock) / float64(frameRateHz))
}
