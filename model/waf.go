package model

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"gorm.io/gorm"
)

const (
	_ uint8 = iota
	WAFBlockReasonTypeBadToken
)

var ErrIPBlocked = errors.New("ip is temporarily blocked")

// WAF 记录一个来源 IP 的失败次数，第 n 次失败后封禁 n^4 秒
type WAF struct {
	IP                 []byte `gorm:"type:binary(16);primaryKey" json:"-"`
	Address            string `gorm:"-" json:"ip"`
	Count              uint64 `json:"count"`
	LastBlockReason    uint8  `json:"last_block_reason"`
	LastBlockTimestamp uint64 `json:"last_block_timestamp"`
}

func (w *WAF) TableName() string {
	return "waf"
}

func (w *WAF) AfterFind(tx *gorm.DB) error {
	w.Address = binaryToIPString(w.IP)
	return nil
}

// BlockedUntil 返回封禁解除的时间
func (w *WAF) BlockedUntil() time.Time {
	return time.Unix(int64(satAdd(w.LastBlockTimestamp, pow4(w.Count))), 0)
}

func ipStringToBinary(ip string) ([]byte, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil, err
	}
	b := addr.As16()
	return b[:], nil
}

func binaryToIPString(b []byte) string {
	var addr16 [16]byte
	copy(addr16[:], b)
	return netip.AddrFrom16(addr16).Unmap().String()
}

func CheckIP(db *gorm.DB, ip string, now time.Time) error {
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	var w WAF
	if err := db.Limit(1).Find(&w, "ip = ?", ipBinary).Error; err != nil {
		return err
	}
	if w.Count == 0 {
		return nil
	}
	if until := w.BlockedUntil(); until.After(now) {
		return fmt.Errorf("%w for %s", ErrIPBlocked, until.Sub(now).Round(time.Second))
	}
	return nil
}

func BlockIP(db *gorm.DB, ip string, reason uint8, now time.Time) error {
	if ip == "" {
		return errors.New("empty ip")
	}
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var w WAF
		if err := tx.FirstOrCreate(&w, WAF{IP: ipBinary}).Error; err != nil {
			return err
		}
		return tx.Model(&WAF{}).Where("ip = ?", ipBinary).Updates(map[string]any{
			"count":                gorm.Expr("count + 1"),
			"last_block_reason":    reason,
			"last_block_timestamp": uint64(now.Unix()),
		}).Error
	})
}

func UnblockIP(db *gorm.DB, ip string) error {
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	return db.Delete(&WAF{}, "ip = ?", ipBinary).Error
}

// pow4 计算 x^4，溢出时返回 uint64 最大值
func pow4(x uint64) uint64 {
	r := uint64(1)
	for i := 0; i < 4; i++ {
		if x != 0 && r > ^uint64(0)/x {
			return ^uint64(0)
		}
		r *= x
	}
	return r
}

func satAdd(a, b uint64) uint64 {
	if a > ^uint64(0)-b {
		return ^uint64(0)
	}
	return a + b
}
