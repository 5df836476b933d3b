package model

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/naiba/hostdeck/pkg/utils"
)

// Host is one proxy endpoint exposed to subscribers. The list of hosts is
// ordered by Priority, lower first.
type Host struct {
	ID         *uint64 `json:"id"` // nil until the panel has persisted it
	Priority   int     `json:"priority"`
	Remark     string  `json:"remark"`
	Address    string  `json:"address"`
	InboundTag string  `json:"inbound_tag"`
	IsDisabled bool    `json:"is_disabled"`

	Port            *int   `json:"port"`
	SNI             string `json:"sni"`
	Host            string `json:"host"`
	Path            string `json:"path"`
	Security        string `json:"security"`
	ALPN            string `json:"alpn"`
	Fingerprint     string `json:"fingerprint"`
	AllowInsecure   *bool  `json:"allowinsecure"`
	MuxEnable       bool   `json:"mux_enable"`
	RandomUserAgent bool   `json:"random_user_agent"`

	// Extra keeps fields the panel sends that hostdeck does not model, so
	// they are written back untouched.
	Extra map[string]jsoniter.RawMessage `json:"-"`
	// Sent lists the modeled keys present in the panel's JSON. An optional
	// key is written back when it was sent or holds a value.
	Sent map[string]struct{} `json:"-"`
}

var hostFields = map[string]struct{}{
	"id": {}, "priority": {}, "remark": {}, "address": {}, "inbound_tag": {},
	"is_disabled": {}, "port": {}, "sni": {}, "host": {}, "path": {},
	"security": {}, "alpn": {}, "fingerprint": {}, "allowinsecure": {},
	"mux_enable": {}, "random_user_agent": {},
}

var optionalHostFields = map[string]struct{}{
	"port": {}, "sni": {}, "host": {}, "path": {}, "security": {}, "alpn": {},
	"fingerprint": {}, "allowinsecure": {}, "mux_enable": {}, "random_user_agent": {},
}

type plainHost Host

// UnmarshalJSON leaves h untouched for a JSON null.
func (h *Host) UnmarshalJSON(data []byte) error {
	if utils.GjsonIsNull(data) {
		return nil
	}
	var p plainHost
	if err := utils.Json.Unmarshal(data, &p); err != nil {
		return err
	}
	sent, extra, err := utils.GjsonSplitFields(data, hostFields)
	if err != nil {
		return err
	}
	p.Sent = sent
	p.Extra = extra
	*h = Host(p)
	return nil
}

func (h Host) MarshalJSON() ([]byte, error) {
	b, err := utils.Json.Marshal(plainHost(h))
	if err != nil {
		return nil, err
	}
	merged := make(map[string]jsoniter.RawMessage, len(hostFields)+len(h.Extra))
	if err := utils.Json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k := range optionalHostFields {
		if _, sent := h.Sent[k]; !sent && isZeroJSON(merged[k]) {
			delete(merged, k)
		}
	}
	for k, v := range h.Extra {
		if _, known := hostFields[k]; !known {
			merged[k] = v
		}
	}
	return utils.Json.Marshal(merged)
}

func isZeroJSON(raw jsoniter.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	return false
}

func (h Host) GetID() (uint64, bool) {
	if h.ID == nil {
		return 0, false
	}
	return *h.ID, true
}

func (h Host) GetPriority() int {
	return h.Priority
}

func (h Host) WithPriority(p int) Host {
	h.Priority = p
	return h
}

// HasID reports whether the host carries the given backend id.
func (h Host) HasID(id uint64) bool {
	v, ok := h.GetID()
	return ok && v == id
}

// ApplyForm merges form values into h. Identity, priority and pass-through
// fields are kept.
func (h *Host) ApplyForm(f HostForm) {
	h.Remark = f.Remark
	h.Address = f.Address
	h.InboundTag = f.InboundTag
	h.IsDisabled = f.IsDisabled
	h.Port = f.Port
	h.SNI = f.SNI
	h.Host = f.Host
	h.Path = f.Path
	h.Security = f.Security
	h.ALPN = f.ALPN
	h.Fingerprint = f.Fingerprint
	h.AllowInsecure = f.AllowInsecure
	h.MuxEnable = f.MuxEnable
	h.RandomUserAgent = f.RandomUserAgent
}
