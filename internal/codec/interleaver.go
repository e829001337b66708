package codec

// Bit interleaver for the Horus Binary transmit block. A burst of channel
// errors damages consecutive transmitted bits; spreading each codeword's
// bits across the whole block turns a burst into scattered single-bit
// errors that the Golay decoder can handle.
//
// The permutation maps bit i to bit (b*i) mod nbits, where b is the largest
// prime not exceeding the block's bit count. nbits is always a multiple of
// 8 and therefore never prime itself, so b is coprime to nbits and the map
// is a bijection.

// interleaverPrimes holds the candidate multipliers. The largest supported
// block is constrained by the last entry: 1013 bits covers payloads well
// past the 32-byte v2 maximum.
var interleaverPrimes = [...]uint16{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
	31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113,
	127, 131, 137, 139, 149, 151, 157, 163, 167, 173,
	179, 181, 191, 193, 197, 199, 211, 223, 227, 229,
	233, 239, 241, 251, 257, 263, 269, 271, 277, 281,
	283, 293, 307, 311, 313, 317, 331, 337, 347, 349,
	353, 359, 367, 373, 379, 383, 389, 397, 401, 409,
	419, 421, 431, 433, 439, 443, 449, 457, 461, 463,
	467, 479, 487, 491, 499, 503, 509, 521, 523, 541,
	547, 557, 563, 569, 571, 577, 587, 593, 599, 601,
	607, 613, 617, 619, 631, 641, 643, 647, 653, 659,
	661, 673, 677, 683, 691, 701, 709, 719, 727, 733,
	739, 743, 751, 757, 761, 769, 773, 787, 797, 809,
	811, 821, 823, 827, 829, 839, 853, 857, 859, 863,
	877, 881, 883, 887, 907, 911, 919, 929, 937, 941,
	947, 953, 967, 971, 977, 983, 991, 997, 1009, 1013,
}

// interleaverMultiplier returns the permutation multiplier for a block of
// nbits bits: the largest prime from the table not exceeding nbits
func interleaverMultiplier(nbits int) int {
	b := int(interleaverPrimes[0])
	for _, p := range interleaverPrimes {
		if int(p) > nbits {
			break
		}
		b = int(p)
	}
	return b
}

// Interleave permutes the bits of the block in place (transmit direction)
func Interleave(block []byte) {
	interleave(block, false)
}

// Deinterleave applies the inverse permutation in place (receive direction)
func Deinterleave(block []byte) {
	interleave(block, true)
}

func interleave(block []byte, inverse bool) {
	nbits := len(block) * 8
	if nbits == 0 {
		return
	}

	b := interleaverMultiplier(nbits)
	out := make([]byte, len(block))

	for n := 0; n < nbits; n++ {
		i := n
		j := (b * i) % nbits
		if inverse {
			i, j = j, i
		}
		setBitLSB(out, j, getBitLSB(block, i))
	}

	copy(block, out)
}
