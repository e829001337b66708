package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PacketRepository provides database operations for decoded packets
type PacketRepository struct {
	db *gorm.DB
}

// NewPacketRepository creates a new repository instance
func NewPacketRepository(db *gorm.DB) *PacketRepository {
	return &PacketRepository{db: db}
}

// Insert stores a decoded packet
func (r *PacketRepository) Insert(packet *Packet) error {
	if packet == nil {
		return fmt.Errorf("packet cannot be nil")
	}
	if packet.ReceivedAt.IsZero() {
		packet.ReceivedAt = time.Now()
	}

	return r.db.Create(packet).Error
}

// Recent returns the most recently received packets, newest first
func (r *PacketRepository) Recent(limit int) ([]Packet, error) {
	var packets []Packet
	err := r.db.Order("received_at DESC").Limit(limit).Find(&packets).Error
	if err != nil {
		return nil, err
	}
	return packets, nil
}

// Counts returns the total number of packets and how many passed the
// checksum
func (r *PacketRepository) Counts() (total int64, checksumOK int64, err error) {
	if err = r.db.Model(&Packet{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&Packet{}).Where("checksum_ok = ?", true).Count(&checksumOK).Error; err != nil {
		return 0, 0, err
	}
	return total, checksumOK, nil
}

// PurgeOlderThan deletes packets received before the cutoff and returns
// how many were removed
func (r *PacketRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("received_at < ?", cutoff).Delete(&Packet{})
	return result.RowsAffected, result.Error
}
