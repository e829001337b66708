package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(Config{Path: filepath.Join(t.TempDir(), "packets.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestInsertAndRecent(t *testing.T) {
	db := testDB(t)
	repo := NewPacketRepository(db.GetDB())

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := repo.Insert(&Packet{
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
			PayloadHex: "000900071E2A",
			PayloadLen: 22,
			Version:    "Horus Binary v1",
			Synced:     true,
			ChecksumOK: i%2 == 0,
		})
		require.NoError(t, err)
	}

	packets, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, packets, 3)

	// Newest first
	require.True(t, packets[0].ReceivedAt.After(packets[1].ReceivedAt))
	require.True(t, packets[1].ReceivedAt.After(packets[2].ReceivedAt))
}

func TestInsertNil(t *testing.T) {
	db := testDB(t)
	repo := NewPacketRepository(db.GetDB())

	require.Error(t, repo.Insert(nil))
}

func TestInsertFillsReceivedAt(t *testing.T) {
	db := testDB(t)
	repo := NewPacketRepository(db.GetDB())

	packet := &Packet{PayloadHex: "AA", PayloadLen: 1}
	require.NoError(t, repo.Insert(packet))
	require.False(t, packet.ReceivedAt.IsZero())
}

func TestCounts(t *testing.T) {
	db := testDB(t)
	repo := NewPacketRepository(db.GetDB())

	for _, ok := range []bool{true, true, false} {
		require.NoError(t, repo.Insert(&Packet{PayloadHex: "AA", ChecksumOK: ok}))
	}

	total, checksumOK, err := repo.Counts()
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.EqualValues(t, 2, checksumOK)
}

func TestPurgeOlderThan(t *testing.T) {
	db := testDB(t)
	repo := NewPacketRepository(db.GetDB())

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Insert(&Packet{
			ReceivedAt: base.Add(time.Duration(i) * time.Hour),
			PayloadHex: "AA",
		}))
	}

	purged, err := repo.PurgeOlderThan(base.Add(2 * time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, purged)

	total, _, err := repo.Counts()
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestPacketHelpers(t *testing.T) {
	packet := Packet{
		PayloadHex: "DEADBEEF",
		Synced:     true,
		ChecksumOK: true,
	}

	payload, err := packet.Payload()
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, payload)
	require.True(t, packet.Clean())

	packet.Uncorrectable = true
	require.False(t, packet.Clean())
}
