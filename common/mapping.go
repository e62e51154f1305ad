package common

import (
	"encoding/binary"
	"sort"
)

// Mapping is a set of (I2PString -> I2PString) pairs. Logical equality is
// key/value equality; the wire encoding is deterministic: keys are sorted
// lexicographically and framed with a u16 total byte length.
type Mapping struct {
	values map[I2PString]I2PString
}

// NewMapping constructs a Mapping from a plain Go map.
func NewMapping(values map[I2PString]I2PString) *Mapping {
	m := &Mapping{values: make(map[I2PString]I2PString, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get returns the value for key, and whether it was present.
func (m *Mapping) Get(key I2PString) (I2PString, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set assigns value to key, overwriting any existing entry.
func (m *Mapping) Set(key, value I2PString) {
	if m.values == nil {
		m.values = make(map[I2PString]I2PString)
	}
	m.values[key] = value
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.values)
}

// Equal reports key/value equality with other, ignoring iteration order.
func (m *Mapping) Equal(other *Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, v := range m.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// sortedKeys returns the mapping's keys in lexicographic order, for
// canonical output.
func (m *Mapping) sortedKeys() []I2PString {
	keys := make([]I2PString, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Bytes encodes the mapping canonically: a u16 total byte length, followed
// by repeated (key, '=', value, ';') pairs with keys in sorted order.
func (m *Mapping) Bytes() []byte {
	var body []byte
	for _, k := range m.sortedKeys() {
		body = append(body, k.Bytes()...)
		body = append(body, '=')
		body = append(body, m.values[k].Bytes()...)
		body = append(body, ';')
	}

	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(len(body)))
	copy(out[2:], body)
	return out
}

// ReadMapping reads a canonical Mapping from the front of data.
func ReadMapping(data []byte) (m *Mapping, remainder []byte, err error) {
	if len(data) < 2 {
		err = incompleteErr("ReadMapping", 2, len(data))
		return
	}
	length := int(binary.BigEndian.Uint16(data[:2]))
	if len(data) < 2+length {
		err = incompleteErr("ReadMapping", 2+length, len(data))
		return
	}
	body := data[2 : 2+length]
	remainder = data[2+length:]

	m = &Mapping{values: make(map[I2PString]I2PString)}
	for len(body) > 0 {
		var key, value I2PString
		key, body, err = ReadI2PString(body)
		if err != nil {
			return nil, nil, parseErr("ReadMapping", "malformed key: "+err.Error())
		}
		if len(body) < 1 || body[0] != '=' {
			return nil, nil, parseErr("ReadMapping", "expected '=' after key")
		}
		body = body[1:]
		value, body, err = ReadI2PString(body)
		if err != nil {
			return nil, nil, parseErr("ReadMapping", "malformed value: "+err.Error())
		}
		if len(body) < 1 || body[0] != ';' {
			return nil, nil, parseErr("ReadMapping", "expected ';' after value")
		}
		body = body[1:]
		m.values[key] = value
	}
	err = nil
	return
}
