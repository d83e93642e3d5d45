package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy; the
// playback backend uses it so block delivery tracks the audio clock.
type AdaptiveLimiter struct {
	targetBlockTime time.Duration
	nextBlockTime   time.Time
	blockCounter    int64
}

func NewAdaptiveLimiter(blockTime time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetBlockTime: blockTime,
		nextBlockTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextBlock() {
	now := time.Now()
	sleepTime := a.nextBlockTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextBlockTime) {
				// busy-wait for times under 2ms, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextBlockTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextBlockTime = now
	}

	a.nextBlockTime = a.nextBlockTime.Add(a.targetBlockTime)
	a.blockCounter++

	if a.blockCounter%100 == 0 {
		drift := time.Now().Sub(a.nextBlockTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextBlockTime = a.nextBlockTime.Add(drift / 10)
			slog.Debug("Block timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextBlockTime = time.Now()
	a.blockCounter = 0
}
