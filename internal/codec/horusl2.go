package codec

// Horus Binary link-layer packet codec. The transmit frame layout is
// systematic:
//
//	| unique word (2) | payload bytes | packed 11-bit Golay parities |
//
// with the whole block after the unique word interleaved and scrambled.
// Payload bits are consumed MSB-first in 12-bit groups; each group yields
// 11 parity bits appended MSB-first after the payload. A final partial
// group is encoded carrying the bit assembler's single trailing shift (the
// deployed C encoder's behavior), which the decoder mirrors. Encode order
// is interleave then scramble; decode is the exact inverse.

import (
	"errors"
	"fmt"

	"github.com/habtools/horusgw/internal/correction"
	"github.com/habtools/horusgw/internal/protocol"
)

// ErrInvalidInput reports a contract violation by the caller: nil or
// undersized payload, or a frame that cannot match the expected payload
// length. Corrupted-but-well-formed input never produces an error.
var ErrInvalidInput = errors.New("invalid input")

// Uncorrectable is the per-codeword error count reported when a codeword
// had more bit errors than the Golay code can correct
const Uncorrectable = correction.GOLAY_UNCORRECTABLE

// Result carries everything decode learned about a received frame.
// Corruption is data, not an error: a failed checksum or an uncorrectable
// codeword still yields the best-effort payload.
type Result struct {
	Payload     []byte  // Decoded payload, including its trailing checksum field
	Synced      bool    // Unique word found at the expected offset
	ChecksumOK  bool    // Payload checksum verified after FEC decoding
	ErrorCounts []uint8 // Corrected bits per codeword, Uncorrectable when beyond radius
}

// CorrectedBits sums the per-codeword corrections, skipping uncorrectable
// codewords
func (r *Result) CorrectedBits() int {
	total := 0
	for _, c := range r.ErrorCounts {
		if c != Uncorrectable {
			total += int(c)
		}
	}
	return total
}

// HasUncorrectable reports whether any codeword exceeded the correction
// radius
func (r *Result) HasUncorrectable() bool {
	for _, c := range r.ErrorCounts {
		if c == Uncorrectable {
			return true
		}
	}
	return false
}

// TransmitSize returns the complete frame size in bytes for a payload of
// payloadLen bytes: unique word, payload, and the byte-padded parity bits.
// Pure and monotonic non-decreasing, usable for buffer pre-allocation
// without performing an encode. Returns 0 for non-positive lengths.
func TransmitSize(payloadLen int) int {
	if payloadLen <= 0 {
		return 0
	}

	payloadBits := payloadLen * 8
	codewords := numCodewords(payloadLen)

	txBits := protocol.HORUS_UNIQUE_WORD_LENGTH*8 + payloadBits + codewords*correction.GOLAY_23_12_PARITY_BITS
	return (txBits + 7) / 8
}

// numCodewords returns the number of Golay codewords covering a payload of
// payloadLen bytes
func numCodewords(payloadLen int) int {
	payloadBits := payloadLen * 8
	return (payloadBits + correction.GOLAY_23_12_DATA_BITS - 1) / correction.GOLAY_23_12_DATA_BITS
}

// Encode builds the complete transmit frame for a payload. The payload's
// final two bytes are its checksum field; Encode computes the checksum
// over the preceding bytes and fills the field in the output (the caller's
// slice is not modified). Any payload length from the protocol minimum up
// is accepted; transmit size is computed, never hardcoded.
func Encode(payload []byte) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is nil", ErrInvalidInput)
	}
	if len(payload) < protocol.HORUS_MIN_PAYLOAD_LENGTH {
		return nil, fmt.Errorf("%w: payload length %d below minimum %d",
			ErrInvalidInput, len(payload), protocol.HORUS_MIN_PAYLOAD_LENGTH)
	}

	n := len(payload)
	frame := make([]byte, TransmitSize(n))

	copy(frame, protocol.HORUS_UNIQUE_WORD[:])
	body := frame[protocol.HORUS_UNIQUE_WORD_LENGTH:]
	copy(body, payload)
	correction.AddCRC16(body[:n])

	appendParity(body, n)

	Interleave(body)
	Scramble(body)

	return frame, nil
}

// appendParity Golay-encodes the payload bits at the front of body and
// packs the parity bits after them
func appendParity(body []byte, payloadLen int) {
	parity := body[payloadLen:]

	pos := 0
	for c := 0; c < numCodewords(payloadLen); c++ {
		data, _ := collectDataBits(body[:payloadLen], c)

		codeword := correction.Golay2312Encode(data)
		for i := correction.GOLAY_23_12_PARITY_BITS - 1; i >= 0; i-- {
			setBitMSB(parity, pos, uint8((codeword>>uint(i))&0x1))
			pos++
		}
	}
}

// collectDataBits assembles the 12-bit data word for codeword index c from
// the payload bytes, returning the word and the number of real payload bits
// it contains. A final partial group keeps the single trailing shift the
// bit assembler leaves behind, matching the deployed encoder bit-for-bit.
func collectDataBits(payload []byte, c int) (uint32, int) {
	payloadBits := len(payload) * 8

	start := c * correction.GOLAY_23_12_DATA_BITS
	r := correction.GOLAY_23_12_DATA_BITS
	if start+r > payloadBits {
		r = payloadBits - start
	}

	var data uint32
	for i := 0; i < r; i++ {
		data = (data << 1) | uint32(getBitMSB(payload, start+i))
	}
	if r < correction.GOLAY_23_12_DATA_BITS {
		data <<= 1
	}

	return data, r
}

// Decode recovers the payload from a received frame. expectedPayloadLen is
// the unencoded payload size the caller expects (22 for Horus v1, 32 for
// v2, other sizes accepted generically).
//
// Contract violations (nil frame, bad length) return ErrInvalidInput.
// Everything the channel did to the frame is reported in the Result: sync
// loss, per-codeword corrections, checksum failure. The checksum verdict is
// canonical - FEC can mis-correct a badly damaged codeword while reporting
// success, so callers must gate on ChecksumOK, not on the error counts.
func Decode(frame []byte, expectedPayloadLen int) (*Result, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: frame is nil", ErrInvalidInput)
	}
	if expectedPayloadLen < protocol.HORUS_MIN_PAYLOAD_LENGTH {
		return nil, fmt.Errorf("%w: expected payload length %d below minimum %d",
			ErrInvalidInput, expectedPayloadLen, protocol.HORUS_MIN_PAYLOAD_LENGTH)
	}
	if len(frame) != TransmitSize(expectedPayloadLen) {
		return nil, fmt.Errorf("%w: frame length %d, want %d for %d payload bytes",
			ErrInvalidInput, len(frame), TransmitSize(expectedPayloadLen), expectedPayloadLen)
	}

	region, synced := Deframe(frame)

	// Work on a copy: descrambling and deinterleaving are in-place
	body := make([]byte, len(region))
	copy(body, region)

	Scramble(body)
	Deinterleave(body)

	n := expectedPayloadLen
	codewords := numCodewords(n)
	payload := make([]byte, n)
	errorCounts := make([]uint8, codewords)

	parity := body[n:]
	for c := 0; c < codewords; c++ {
		data, r := collectDataBits(body[:n], c)

		var p uint32
		for i := 0; i < correction.GOLAY_23_12_PARITY_BITS; i++ {
			p = (p << 1) | uint32(getBitMSB(parity, c*correction.GOLAY_23_12_PARITY_BITS+i))
		}

		received := (data << correction.GOLAY_23_12_PARITY_BITS) | p
		corrected, errs := correction.Golay2312Decode(received)
		errorCounts[c] = errs

		decoded := correction.Golay2312Data(corrected)
		if r < correction.GOLAY_23_12_DATA_BITS {
			decoded >>= 1
		}
		for i := 0; i < r; i++ {
			setBitMSB(payload, c*correction.GOLAY_23_12_DATA_BITS+i, uint8((decoded>>uint(r-1-i))&0x1))
		}
	}

	return &Result{
		Payload:     payload,
		Synced:      synced,
		ChecksumOK:  correction.CheckCRC16(payload),
		ErrorCounts: errorCounts,
	}, nil
}
