package codec

// Bit addressing helpers. Two orders are in play on the wire: the Golay
// data/parity streams run MSB-first within each byte, while the interleaver
// and scrambler address bits LSB-first. Both sides of the link agree on the
// orders, so they only need to be applied consistently.

// getBitMSB returns bit i of the buffer, MSB-first within each byte
func getBitMSB(buf []byte, i int) uint8 {
	return (buf[i/8] >> uint(7-(i%8))) & 0x1
}

// setBitMSB sets bit i of the buffer to v, MSB-first within each byte
func setBitMSB(buf []byte, i int, v uint8) {
	mask := uint8(1) << uint(7-(i%8))
	if v != 0 {
		buf[i/8] |= mask
	} else {
		buf[i/8] &^= mask
	}
}

// getBitLSB returns bit i of the buffer, LSB-first within each byte
func getBitLSB(buf []byte, i int) uint8 {
	return (buf[i/8] >> uint(i%8)) & 0x1
}

// setBitLSB sets bit i of the buffer to v, LSB-first within each byte
func setBitLSB(buf []byte, i int, v uint8) {
	mask := uint8(1) << uint(i%8)
	if v != 0 {
		buf[i/8] |= mask
	} else {
		buf[i/8] &^= mask
	}
}
