package utils

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var ErrGjsonWrongType = errors.New("wrong type")

// GjsonSplitFields walks the top level keys of a JSON object. Keys listed in
// known are collected into present, every other key is returned raw in
// extra. Both maps are nil when empty.
func GjsonSplitFields(json []byte, known map[string]struct{}) (present map[string]struct{}, extra map[string]jsoniter.RawMessage, err error) {
	result := gjson.ParseBytes(json)
	if !result.IsObject() {
		return nil, nil, ErrGjsonWrongType
	}
	result.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, ok := known[k]; ok {
			if present == nil {
				present = make(map[string]struct{})
			}
			present[k] = struct{}{}
			return true
		}
		if extra == nil {
			extra = make(map[string]jsoniter.RawMessage)
		}
		extra[k] = jsoniter.RawMessage(value.Raw)
		return true
	})
	return present, extra, nil
}

// GjsonIsNull reports whether json is the literal null.
func GjsonIsNull(json []byte) bool {
	return gjson.ParseBytes(json).Type == gjson.Null
}
