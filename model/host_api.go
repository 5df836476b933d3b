package model

import "github.com/naiba/hostdeck/pkg/dragdrop"

type HostForm struct {
	Remark     string `json:"remark,omitempty" binding:"required"`
	Address    string `json:"address,omitempty" binding:"required"`
	InboundTag string `json:"inbound_tag,omitempty" binding:"required"`
	IsDisabled bool   `json:"is_disabled,omitempty"`

	Port            *int   `json:"port,omitempty" binding:"omitempty,min=1,max=65535"`
	SNI             string `json:"sni,omitempty"`
	Host            string `json:"host,omitempty"`
	Path            string `json:"path,omitempty"`
	Security        string `json:"security,omitempty" binding:"omitempty,oneof=inbound_default none tls"`
	ALPN            string `json:"alpn,omitempty"`
	Fingerprint     string `json:"fingerprint,omitempty"`
	AllowInsecure   *bool  `json:"allowinsecure,omitempty"`
	MuxEnable       bool   `json:"mux_enable,omitempty"`
	RandomUserAgent bool   `json:"random_user_agent,omitempty"`
}

// ReorderForm ids are pointers so that id 0 is a valid host.
type ReorderForm struct {
	SourceID *uint64 `json:"source_id" binding:"required"`
	TargetID *uint64 `json:"target_id" binding:"required"`
}

// DropForm carries the state of a finished drag gesture as the browser saw it.
type DropForm struct {
	Pointer dragdrop.PointerState `json:"pointer"`
	Layouts []dragdrop.ItemLayout `json:"layouts"`
	// Key is set instead of a pointer delta when the drag was made with the
	// keyboard sensor.
	Key dragdrop.Key `json:"key,omitempty"`
}

type HostListResponse struct {
	Hosts       []Host     `json:"hosts"`
	SortableIDs []uint64   `json:"sortable_ids"`
	Sync        SyncStatus `json:"sync"`
}
