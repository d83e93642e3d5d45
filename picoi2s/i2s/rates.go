// Package i2s covers the serial wire side of the PCM510x link: the closed
// set of supported sample rates with their bit-clock pairings, and the
// encoding that turns a signed sample into the word the shift register
// streams out.
package i2s

import "fmt"

// SampleRate is one of the word-clock (LRCK) frequencies the PCM510x
// accepts. It is its own type so rates are never compared to bare numbers.
type SampleRate int

const (
	Rate32kHz SampleRate = iota
	Rate44_1kHz
	Rate48kHz
	Rate96kHz
	Rate192kHz
	Rate384kHz
)

// clockPair binds a word-clock frequency to the bit-clock frequency the
// DAC's PLL expects for it. The pairs come from the PCM510xA datasheet
// table of BCK rates by LRCK sample rate; each BCK is 32x its LRCK, giving
// a 32-bit stereo frame (16 bit-clock periods per channel slot).
type clockPair struct {
	wordClockHz float32
	bitClockHz  float32
}

var clockTable = map[SampleRate]clockPair{
	Rate32kHz:   {32_000, 1_024_000},
	Rate44_1kHz: {44_100, 1_411_200},
	Rate48kHz:   {48_000, 1_536_000},
	Rate96kHz:   {96_000, 3_072_000},
	Rate192kHz:  {192_000, 6_144_000},
	Rate384kHz:  {384_000, 12_288_000},
}

// Clocks returns the word-clock and bit-clock frequencies for the rate.
func (r SampleRate) Clocks() (wordClockHz, bitClockHz float32) {
	p := clockTable[r]
	return p.wordClockHz, p.bitClockHz
}

// Hz returns the word-clock frequency as an integer, for consumers like
// WAV headers and audio drivers that want whole Hertz. Rate44_1kHz is the
// only non-integral-kHz entry and is still a whole number of Hertz.
func (r SampleRate) Hz() int {
	return int(clockTable[r].wordClockHz)
}

func (r SampleRate) String() string {
	switch r {
	case Rate32kHz:
		return "32000"
	case Rate44_1kHz:
		return "44100"
	case Rate48kHz:
		return "48000"
	case Rate96kHz:
		return "96000"
	case Rate192kHz:
		return "192000"
	case Rate384kHz:
		return "384000"
	}
	return fmt.Sprintf("SampleRate(%d)", int(r))
}

// ParseRate maps a word-clock frequency in Hz to its SampleRate. Rates
// outside the closed set are a configuration error.
func ParseRate(hz string) (SampleRate, error) {
	for r := Rate32kHz; r <= Rate384kHz; r++ {
		if r.String() == hz {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unsupported sample rate %q (supported: 32000, 44100, 48000, 96000, 192000, 384000)", hz)
}
