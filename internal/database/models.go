package database

import (
	"encoding/hex"
	"fmt"
	"time"
)

// Packet is one decoded frame as received off air
type Packet struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ReceivedAt    time.Time `gorm:"index" json:"received_at"`
	PayloadHex    string    `gorm:"size:256" json:"payload_hex"`
	PayloadLen    int       `json:"payload_len"`
	Version       string    `gorm:"size:20" json:"version"`
	Synced        bool      `json:"synced"`
	ChecksumOK    bool      `gorm:"index" json:"checksum_ok"`
	CorrectedBits int       `json:"corrected_bits"`
	Uncorrectable bool      `json:"uncorrectable"`
	SNR           float64   `json:"snr"`
}

// TableName specifies the table name for GORM
func (Packet) TableName() string {
	return "packets"
}

// Payload decodes the stored hex back to raw bytes
func (p Packet) Payload() ([]byte, error) {
	return hex.DecodeString(p.PayloadHex)
}

// Clean reports whether the packet passed every integrity check
func (p Packet) Clean() bool {
	return p.Synced && p.ChecksumOK && !p.Uncorrectable
}

// String returns a formatted one-line representation
func (p Packet) String() string {
	verdict := "FAIL"
	if p.ChecksumOK {
		verdict = "OK"
	}
	return fmt.Sprintf("%s %s crc=%s corrected=%d snr=%.1f",
		p.ReceivedAt.Format(time.RFC3339), p.PayloadHex, verdict, p.CorrectedBits, p.SNR)
}
