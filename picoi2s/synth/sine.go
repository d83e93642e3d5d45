// Package synth builds the fixed sine lookup table that the streaming loop
// cycles through for the lifetime of the device.
package synth

import (
	"fmt"
	"math"
)

// periodTolerance bounds how far tableSize*frequency/sampleRate may sit
// from a whole number before the table is rejected as non-seamless.
const periodTolerance = 1e-6

// Generate produces tableSize signed samples of a sine at the given
// frequency and sample rate, scaled to the given amplitude.
//
// The table must hold a whole number of waveform periods
// (tableSize * frequency / sampleRate integral) so that the streaming loop
// can wrap from the last entry back to the first without a discontinuity;
// anything else is rejected.
//
// The sine kernel is the truncated odd-power series x - x^3/6 + x^5/120,
// applied after folding the phase into [-pi/2, pi/2]. This is an
// intentional lightweight approximation: no terms beyond the fifth power
// are used, and it is only suitable when the per-sample angle increment is
// small (frequency well below the sample rate). Near the fold boundary the
// truncated series overshoots unity by about 0.45%, so each sample is
// clamped to +/-amplitude to keep the table inside the encoding headroom.
//
// Generate is deterministic: identical arguments yield identical tables.
func Generate(tableSize int, frequency, sampleRate float32, amplitude int32) ([]int32, error) {
	if tableSize <= 0 {
		return nil, fmt.Errorf("table size must be positive, got %d", tableSize)
	}
	if frequency <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("frequency and sample rate must be positive, got %v Hz at %v Hz", frequency, sampleRate)
	}
	if amplitude <= 0 {
		return nil, fmt.Errorf("amplitude must be positive, got %d", amplitude)
	}

	periods := float64(tableSize) * float64(frequency) / float64(sampleRate)
	if math.Abs(periods-math.Round(periods)) > periodTolerance {
		return nil, fmt.Errorf("table of %d samples spans %.6f periods of %v Hz at %v Hz; a whole number of periods is required for seamless wrap",
			tableSize, periods, frequency, sampleRate)
	}

	omega := 2 * math.Pi * float64(frequency) / float64(sampleRate)
	table := make([]int32, tableSize)
	for i := range table {
		s := approxSine(omega * float64(i))
		v := int64(math.Round(float64(amplitude) * s))
		if v > int64(amplitude) {
			v = int64(amplitude)
		} else if v < int64(-amplitude) {
			v = int64(-amplitude)
		}
		table[i] = int32(v)
	}
	return table, nil
}

// approxSine evaluates the truncated series x - x^3/6 + x^5/120 on the
// quadrant-folded angle. The fold is exact for whole-period tables, so the
// kernel only ever sees [-pi/2, pi/2].
func approxSine(angle float64) float64 {
	x := math.Mod(angle, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	sign := 1.0
	if x > math.Pi {
		sign = -1.0
		x -= math.Pi
	}
	if x > math.Pi/2 {
		x = math.Pi - x
	}

	x2 := x * x
	return sign * x * (1 - x2/6*(1-x2/20))
}
