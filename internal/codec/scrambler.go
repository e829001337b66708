package codec

// Additive scrambler for the Horus Binary transmit block, the 16-bit DVB
// x^15 + x^14 + 1 generator. Whitening removes the long runs of identical
// bits a mostly-zero telemetry payload would otherwise transmit, which
// would defeat the receiver's bit synchronization.

// Scrambler shift register seed, loaded at the start of every block
const SCRAMBLER_SEED = 0x4A80

// Scramble XORs the block in place with the scrambler sequence. The
// scrambler is additive and the register reloads per block, so applying it
// a second time restores the original bits exactly.
func Scramble(block []byte) {
	nbits := len(block) * 8
	lfsr := uint16(SCRAMBLER_SEED)

	for i := 0; i < nbits; i++ {
		out := ((lfsr & 0x2) >> 1) ^ (lfsr & 0x1)

		setBitLSB(block, i, getBitLSB(block, i)^uint8(out))

		lfsr >>= 1
		lfsr |= out << 14
	}
}
