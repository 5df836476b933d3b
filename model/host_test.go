package model

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naiba/hostdeck/pkg/utils"
)

func TestHostKeepsUnknownFields(t *testing.T) {
	raw := `{"id":4,"priority":2,"remark":"de-1","address":"de.example.com","inbound_tag":"VLESS TCP","is_disabled":false,"port":443,"fragment_settings":{"packets":"tlshello","length":"100-200"},"noise_settings":null,"http_headers":{"X-A":"1"}}`

	var h Host
	require.NoError(t, utils.Json.Unmarshal([]byte(raw), &h))
	id, ok := h.GetID()
	assert.True(t, ok)
	assert.EqualValues(t, 4, id)
	assert.Equal(t, 2, h.Priority)
	assert.Equal(t, 443, *h.Port)
	assert.Len(t, h.Extra, 3)

	out, err := utils.Json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestHostWithoutID(t *testing.T) {
	var h Host
	require.NoError(t, utils.Json.Unmarshal([]byte(`{"id":null,"remark":"new","address":"a","inbound_tag":"t"}`), &h))
	_, ok := h.GetID()
	assert.False(t, ok)
	assert.Nil(t, h.Extra)

	out, err := utils.Json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":null`)
}

func TestHostExtraCannotShadowKnownFields(t *testing.T) {
	one := uint64(1)
	h := Host{
		ID:       &one,
		Priority: 5,
		Remark:   "r",
		Extra:    map[string]jsoniter.RawMessage{"priority": []byte("99"), "note": []byte(`"x"`)},
	}
	out, err := utils.Json.Marshal(h)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, utils.Json.Unmarshal(out, &back))
	assert.EqualValues(t, 5, back["priority"])
	assert.Equal(t, "x", back["note"])
}

func TestHostApplyForm(t *testing.T) {
	seven := uint64(7)
	port := 8443
	h := Host{ID: &seven, Priority: 3, Remark: "old", Extra: map[string]jsoniter.RawMessage{"k": []byte("1")}}
	h.ApplyForm(HostForm{Remark: "new", Address: "b.example.com", InboundTag: "trojan", Port: &port, IsDisabled: true})

	assert.Equal(t, &seven, h.ID)
	assert.Equal(t, 3, h.Priority)
	assert.Equal(t, "new", h.Remark)
	assert.Equal(t, "b.example.com", h.Address)
	assert.True(t, h.IsDisabled)
	assert.Equal(t, 8443, *h.Port)
	assert.Len(t, h.Extra, 1)
}

func TestHostRoundTripKeepsSentKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty sni", `{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false,"sni":""}`},
		{"absent port", `{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false}`},
		{"null port and false mux", `{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false,"port":null,"mux_enable":false}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var h Host
			require.NoError(t, utils.Json.Unmarshal([]byte(c.raw), &h))
			out, err := utils.Json.Marshal(h)
			require.NoError(t, err)
			assert.JSONEq(t, c.raw, string(out))
		})
	}
}

func TestHostEditedOptionalFields(t *testing.T) {
	var h Host
	require.NoError(t, utils.Json.Unmarshal([]byte(`{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false,"sni":"x.example.com"}`), &h))
	port := 443
	h.ApplyForm(HostForm{Remark: "a", Address: "a", InboundTag: "t", Port: &port})

	out, err := utils.Json.Marshal(h)
	require.NoError(t, err)
	// sni 被清空后仍要写回，告诉面板它已被清除
	assert.JSONEq(t, `{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false,"sni":"","port":443}`, string(out))
}

func TestHostListWithNull(t *testing.T) {
	var hosts []Host
	require.NoError(t, utils.Json.Unmarshal([]byte(`[null,{"id":2,"priority":0,"remark":"b","address":"b","inbound_tag":"t"}]`), &hosts))
	require.Len(t, hosts, 2)
	assert.Nil(t, hosts[0].ID)
	assert.True(t, hosts[1].HasID(2))
}
