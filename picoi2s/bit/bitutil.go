package bit

// Reverse32 returns v with its bit order reversed end to end, so bit 0
// swaps with bit 31, bit 1 with bit 30 and so on. This is a bit-order
// reversal, not a byte swap. The loop runs a fixed 32 iterations, so an
// input with only bit 31 set reverses cleanly to 1.
func Reverse32(v uint32) uint32 {
	var rev uint32
	for i := 0; i < 32; i++ {
		rev <<= 1
		rev |= v & 1
		v >>= 1
	}
	return rev
}

// Byte extracts the byte at the given index from a 32 bit value, with
// index 0 being the least significant byte. Extraction works on the value
// itself, so the result is independent of host byte order.
func Byte(v uint32, index uint) uint8 {
	return uint8(v >> (8 * index))
}

// IsSet32 will check if the bit at the specified index is set to 1 or not.
func IsSet32(index uint, value uint32) bool {
	return ((value >> index) & 1) == 1
}
