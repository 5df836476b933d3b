package model

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPow4(t *testing.T) {
	tests := []struct {
		x, expect uint64
	}{
		{0, 0},
		{1, 1},
		{2, 16},
		{3, 81},
		{1 << 16, math.MaxUint64}, // 2^64 溢出
		{math.MaxUint64, math.MaxUint64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, pow4(tt.x), "pow4(%d)", tt.x)
	}
}

func TestSatAdd(t *testing.T) {
	assert.EqualValues(t, 5, satAdd(2, 3))
	assert.EqualValues(t, uint64(math.MaxUint64), satAdd(math.MaxUint64-1, 2))
}

func TestBlockIP(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "waf.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(WAF{}))

	now := time.Unix(1_700_000_000, 0)
	const ip = "192.0.2.7"

	assert.NoError(t, CheckIP(db, ip, now))

	require.NoError(t, BlockIP(db, ip, WAFBlockReasonTypeBadToken, now))
	assert.ErrorIs(t, CheckIP(db, ip, now), ErrIPBlocked)
	assert.NoError(t, CheckIP(db, ip, now.Add(time.Second)))

	require.NoError(t, BlockIP(db, ip, WAFBlockReasonTypeBadToken, now))
	assert.ErrorIs(t, CheckIP(db, ip, now.Add(15*time.Second)), ErrIPBlocked)
	assert.NoError(t, CheckIP(db, ip, now.Add(16*time.Second)))
	assert.NoError(t, CheckIP(db, "192.0.2.8", now))

	var list []WAF
	require.NoError(t, db.Find(&list).Error)
	require.Len(t, list, 1)
	assert.Equal(t, ip, list[0].Address)
	assert.EqualValues(t, 2, list[0].Count)
	assert.Equal(t, WAFBlockReasonTypeBadToken, list[0].LastBlockReason)

	require.NoError(t, UnblockIP(db, ip))
	require.NoError(t, BlockIP(db, ip, WAFBlockReasonTypeBadToken, now))
	assert.NoError(t, CheckIP(db, ip, now.Add(time.Second)))

	assert.Error(t, CheckIP(db, "not-an-ip", now))
	assert.Error(t, BlockIP(db, "", WAFBlockReasonTypeBadToken, now))
}
