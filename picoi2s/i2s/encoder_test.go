package i2s

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ramenspazz/Pico-I2S/picoi2s/bit"
)

func TestEncodeWireLayout(t *testing.T) {
	tests := []struct {
		name   string
		sample int32
	}{
		{"zero", 0},
		{"one", 1},
		{"max positive magnitude", AmplitudeCeiling},
		{"minus one", -1},
		{"amplitude ceiling headroom value", 0x6FFFFF},
		{"max negative magnitude", -0x800000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := Encode(tt.sample, true)

			// The shift register sends word bit 0 first, and the receiver
			// treats the first wire bit as the sign.
			sign := tt.sample < 0
			assert.Equal(t, sign, bit.IsSet32(0, word),
				"first wire bit (word bit 0) must carry the sign")
		})
	}
}

func TestEncodeDecodeRoundTrip24Bit(t *testing.T) {
	samples := []int32{
		0, 1, -1, 2, -2,
		0x6FFFFF, -0x6FFFFF,
		AmplitudeCeiling, -AmplitudeCeiling,
		-0x800000, // smallest value a 24-bit magnitude plus sign can carry
		0x123456, -0x123456,
	}

	for _, s := range samples {
		word := Encode(s, true)
		assert.Equal(t, s, Decode(word, true), "Decode(Encode(%#x)) must recover the sample", s)
	}
}

func TestEncodeDecodeRoundTrip32Bit(t *testing.T) {
	samples := []int32{0, 1, -1, 0x7FFFFFFF, -0x80000000, 0x00ABCDEF}

	for _, s := range samples {
		word := Encode(s, false)
		assert.Equal(t, s, Decode(word, false))
	}
}

func TestEncodeIsInjectiveOnNearbySamples(t *testing.T) {
	seen := make(map[uint32]int32)
	for s := int32(-4096); s <= 4096; s++ {
		word := Encode(s, true)
		prev, dup := seen[word]
		assert.False(t, dup, "samples %d and %d encode to the same word %08X", prev, s, word)
		seen[word] = s
	}
}

func TestEncodeSignBitOnlyReversal(t *testing.T) {
	// -0x800000 sign-extends to 0xFF800000; after byte reassembly the
	// accumulator is the same value, whose reversal must place the sign at
	// the bottom of the word without any shift underflow.
	word := Encode(-0x800000, true)
	assert.True(t, bit.IsSet32(0, word), "sign must arrive as the first wire bit")

	// The degenerate reversal inputs themselves.
	assert.Equal(t, uint32(1), bit.Reverse32(0x80000000))
	assert.Equal(t, uint32(0x80000000), bit.Reverse32(1))
	assert.Equal(t, uint32(0), bit.Reverse32(0))
}

func TestClockTable(t *testing.T) {
	tests := []struct {
		rate        SampleRate
		wordClockHz float32
		bitClockHz  float32
	}{
		{Rate32kHz, 32_000, 1_024_000},
		{Rate44_1kHz, 44_100, 1_411_200},
		{Rate48kHz, 48_000, 1_536_000},
		{Rate96kHz, 96_000, 3_072_000},
		{Rate192kHz, 192_000, 6_144_000},
		{Rate384kHz, 384_000, 12_288_000},
	}

	for _, tt := range tests {
		word, bck := tt.rate.Clocks()
		assert.Equal(t, tt.wordClockHz, word)
		assert.Equal(t, tt.bitClockHz, bck)
		assert.Equal(t, tt.wordClockHz*32, bck, "bit clock is 32x the word clock for %s", tt.rate)
	}
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("44100")
	assert.NoError(t, err)
	assert.Equal(t, Rate44_1kHz, r)

	_, err = ParseRate("22050")
	assert.Error(t, err)
}
