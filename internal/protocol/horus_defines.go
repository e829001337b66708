package protocol

// Horus Binary link-layer constants

const (
	// Unique word marking the start of every transmit frame ("$$")
	HORUS_UNIQUE_WORD_LENGTH = 2

	// Payload sizes for the deployed protocol versions. The checksum
	// occupies the final two bytes of the payload in both versions.
	HORUS_V1_PAYLOAD_LENGTH = 22 // Horus Binary v1 (GPS + basic telemetry)
	HORUS_V2_PAYLOAD_LENGTH = 32 // Horus Binary v2 (extended telemetry)

	HORUS_CHECKSUM_LENGTH = 2 // CRC16-CCITT, little-endian

	// Smallest payload the codec accepts: one data byte plus the checksum
	HORUS_MIN_PAYLOAD_LENGTH = 3

	// Buffer constants
	BUFFER_LENGTH = 1024 // Maximum packet size for network operations
)

// Unique word bytes
var (
	HORUS_UNIQUE_WORD = [HORUS_UNIQUE_WORD_LENGTH]byte{0x24, 0x24}
)

// Version identifies a Horus Binary protocol version by its payload length
type Version int

const (
	VersionUnknown Version = iota
	Version1
	Version2
)

// VersionForPayloadLength maps a payload length to the protocol version it
// belongs to. Other lengths are legal for the codec but carry no version.
func VersionForPayloadLength(n int) Version {
	switch n {
	case HORUS_V1_PAYLOAD_LENGTH:
		return Version1
	case HORUS_V2_PAYLOAD_LENGTH:
		return Version2
	default:
		return VersionUnknown
	}
}

// String returns a human-readable version name
func (v Version) String() string {
	switch v {
	case Version1:
		return "Horus Binary v1"
	case Version2:
		return "Horus Binary v2"
	default:
		return "unknown"
	}
}
