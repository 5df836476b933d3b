package model

import "time"

const (
	SyncStateIdle uint8 = iota
	SyncStatePending
	SyncStateFlushing
)

type SyncStatus struct {
	State       uint8     `json:"state"`
	LastFlushAt time.Time `json:"last_flush_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Flushes     uint64    `json:"flushes"`
}

// SyncHistory records one write of the host list to the panel.
type SyncHistory struct {
	ID        uint64    `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at,omitempty"`
	HostCount int       `json:"host_count"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Elapsed   int64     `json:"elapsed,omitempty"` // 毫秒
}
