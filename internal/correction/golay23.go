package correction

// Golay (23,12,7) generator polynomial: x^11 + x^10 + x^6 + x^5 + x^4 + x^2 + 1
const GOLAY_23_12_GENERATOR = 0xC75

// Code parameters
const (
	GOLAY_23_12_DATA_BITS   = 12 // Data bits per codeword
	GOLAY_23_12_PARITY_BITS = 11 // Parity bits per codeword
	GOLAY_23_12_TOTAL_BITS  = 23 // Codeword length
	GOLAY_23_12_MAX_ERRORS  = 3  // Correction radius (minimum distance 7)
)

// GOLAY_UNCORRECTABLE is returned as the error count when a codeword cannot
// be corrected within the code's correction radius
const GOLAY_UNCORRECTABLE = 0xFF

// golayDecodeTable maps an 11-bit syndrome to the 23-bit error pattern that
// produced it. The (23,12) code is perfect: the 1 + 23 + 253 + 1771 error
// patterns of weight 0-3 fill all 2048 syndromes exactly. Built once at
// start-up and read-only afterwards, so concurrent decodes need no locking.
var golayDecodeTable [2048]uint32

func init() {
	for i := 0; i < GOLAY_23_12_TOTAL_BITS; i++ {
		single := uint32(1) << uint(i)
		golayDecodeTable[polyDiv23(single)] = single

		for j := i + 1; j < GOLAY_23_12_TOTAL_BITS; j++ {
			double := single | (uint32(1) << uint(j))
			golayDecodeTable[polyDiv23(double)] = double

			for k := j + 1; k < GOLAY_23_12_TOTAL_BITS; k++ {
				triple := double | (uint32(1) << uint(k))
				golayDecodeTable[polyDiv23(triple)] = triple
			}
		}
	}
}

// Golay2312Encode encodes 12 data bits into a 23-bit Golay codeword.
// The codeword is systematic: 12 data bits followed by 11 parity bits.
func Golay2312Encode(data uint32) uint32 {
	data &= 0xFFF

	// Shift data into the high bits and divide by the generator
	shifted := data << GOLAY_23_12_PARITY_BITS
	parity := polyDiv23(shifted)

	return shifted | parity
}

// Golay2312Decode corrects up to 3 bit errors in a 23-bit codeword.
// Returns the corrected codeword and the number of bits corrected.
// An error count of GOLAY_UNCORRECTABLE means the codeword was not
// correctable; the input is returned unchanged in that case.
func Golay2312Decode(codeword uint32) (uint32, uint8) {
	codeword &= 0x7FFFFF

	syndrome := polyDiv23(codeword)
	if syndrome == 0 {
		return codeword, 0
	}

	errorPattern := golayDecodeTable[syndrome]
	if errorPattern == 0 {
		return codeword, GOLAY_UNCORRECTABLE
	}

	return codeword ^ errorPattern, popcount32(errorPattern)
}

// Golay2312Data extracts the 12 data bits from a 23-bit codeword
func Golay2312Data(codeword uint32) uint32 {
	return (codeword >> GOLAY_23_12_PARITY_BITS) & 0xFFF
}

// polyDiv23 performs polynomial division for a 23-bit codeword, returning
// the 11-bit remainder (the syndrome)
func polyDiv23(dividend uint32) uint32 {
	dividend &= 0x7FFFFF

	remainder := dividend
	for i := 22; i >= 11; i-- {
		if (remainder & (1 << uint(i))) != 0 {
			remainder ^= GOLAY_23_12_GENERATOR << uint(i-11)
		}
	}

	return remainder & 0x7FF
}

// popcount32 counts the number of 1 bits in a 32-bit integer
func popcount32(x uint32) uint8 {
	var count uint8
	for x != 0 {
		count++
		x &= x - 1 // Remove the lowest set bit
	}
	return count
}
