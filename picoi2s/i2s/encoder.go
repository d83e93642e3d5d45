package i2s

import (
	"github.com/ramenspazz/Pico-I2S/picoi2s/bit"
)

// AmplitudeCeiling is the largest sample magnitude the 24-bit wire format
// can carry. Tables must stay strictly below it so the magnitude never
// bleeds into the sign bit during encoding.
const AmplitudeCeiling = 0x7FFFFF

const bitsPerByte = 8

// Encode converts a signed sample into the 32-bit word the serial shift
// register streams to the DAC.
//
// The word is assembled LSB-first from the sample's two's-complement bytes
// using explicit shifts and masks (never memory reinterpretation, so host
// byte order is irrelevant). In 24-bit mode the fourth byte contributes
// only its low 7 bits at bits 24-30, and the original sign lands isolated
// at bit 31. The assembled word is then bit-order reversed: the shift
// register empties its buffer LSB-first while the DAC consumes the wire
// MSB-first, so the reversal puts the sign bit on the wire first.
func Encode(sample int32, is24Bit bool) uint32 {
	raw := uint32(sample)

	var acc uint32
	byteCount := uint(4)
	if is24Bit {
		byteCount = 3
	}
	for i := uint(0); i < byteCount; i++ {
		acc |= uint32(bit.Byte(raw, i)) << (bitsPerByte * i)
	}

	if is24Bit {
		top := bit.Byte(raw, 3)
		acc |= uint32(top&0x7F) << 24
		if top&0x80 == 0x80 {
			// Restore the sign, isolated at the top of the word.
			acc |= 1 << 31
		}
	}

	return bit.Reverse32(acc)
}

// Decode inverts Encode, recovering the signed sample from a wire word.
// Undoing the reversal puts every byte (and the sign bit) back in its
// original position, so the remaining inverse is the identity; the split
// into reassembly steps on the encode side exists for the wire's sake,
// not because information moves.
func Decode(word uint32, is24Bit bool) int32 {
	acc := bit.Reverse32(word)
	if !is24Bit {
		return int32(acc)
	}
	magnitude := acc & 0x7FFF_FFFF
	if bit.IsSet32(31, acc) {
		magnitude |= 1 << 31
	}
	return int32(magnitude)
}
