package codec

import (
	"github.com/habtools/horusgw/internal/protocol"
)

// Frame prepends the unique word to an encoded block, producing the
// complete transmit buffer
func Frame(block []byte) []byte {
	frame := make([]byte, 0, protocol.HORUS_UNIQUE_WORD_LENGTH+len(block))
	frame = append(frame, protocol.HORUS_UNIQUE_WORD[:]...)
	frame = append(frame, block...)
	return frame
}

// Deframe checks for the unique word at the start of the buffer and
// returns the remainder plus a sync flag.
//
// A missing unique word is a normal outcome, not an error: in streaming use
// most offsets into the receive buffer are not frame-aligned, and the
// demodulator upstream is the one responsible for hunting for alignment.
// The remainder is returned either way so a caller that trusts its own
// alignment can still attempt a decode.
func Deframe(buffer []byte) ([]byte, bool) {
	if len(buffer) < protocol.HORUS_UNIQUE_WORD_LENGTH {
		return nil, false
	}

	synced := buffer[0] == protocol.HORUS_UNIQUE_WORD[0] &&
		buffer[1] == protocol.HORUS_UNIQUE_WORD[1]

	return buffer[protocol.HORUS_UNIQUE_WORD_LENGTH:], synced
}
