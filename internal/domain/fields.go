package domain

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// object holds one decoded JSON object. Lookups match keys exactly; struct
// decoding would also accept "Status" or "PAYER".
type object map[string]json.RawMessage

var jsonNull = []byte("null")

// decodeObject returns a nil object for null.
func decodeObject(raw []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return raw == nil || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func (o object) objectField(key string) (object, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return obj, nil
}

func (o object) stringField(key string) (*string, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &s, nil
}

// int64Field accepts only an integer literal, so "500", 5.5 and 5e2 are rejected.
func (o object) int64Field(key string) (*int64, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	n, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: expected an integer, got %s", key, raw)
	}
	return &n, nil
}
