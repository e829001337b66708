package correction

// CRC16-CCITT generator polynomial: x^16 + x^12 + x^5 + 1
const CRC16_POLYNOMIAL = 0x1021

// CRC16-CCITT initial register value used by the Horus Binary link layer
const CRC16_INITIAL = 0xFFFF

// crc16Table is built once at start-up and read-only afterwards
var crc16Table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if (crc & 0x8000) != 0 {
				crc = (crc << 1) ^ CRC16_POLYNOMIAL
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

// CRC16 computes the CRC16-CCITT checksum over the given bytes.
// The checksum is a pure function of the input: same bytes, same result.
func CRC16(data []byte) uint16 {
	crc := uint16(CRC16_INITIAL)
	for _, b := range data {
		crc = (crc << 8) ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

// AddCRC16 computes the checksum over all but the last two bytes of the
// buffer and stores it little-endian in those last two bytes.
// Returns false if the buffer is too short to hold a checksum.
func AddCRC16(buffer []byte) bool {
	if len(buffer) < 3 {
		return false
	}

	crc := CRC16(buffer[:len(buffer)-2])
	buffer[len(buffer)-2] = uint8(crc & 0xFF)
	buffer[len(buffer)-1] = uint8(crc >> 8)

	return true
}

// CheckCRC16 verifies the little-endian checksum in the last two bytes of
// the buffer against the checksum of the preceding bytes.
func CheckCRC16(buffer []byte) bool {
	if len(buffer) < 3 {
		return false
	}

	crc := CRC16(buffer[:len(buffer)-2])
	stored := uint16(buffer[len(buffer)-2]) | (uint16(buffer[len(buffer)-1]) << 8)

	return crc == stored
}
