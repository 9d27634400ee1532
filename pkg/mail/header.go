package mail

import (
	"encoding/json"
	"net/textproto"
)

// Header is an ordered set of single-valued message headers. Keys are
// normalized to their canonical capitalization on every access, so "MIME-version"
// and "Mime-Version" address the same entry. The zero value is ready to use.
type Header struct {
	keys   []string
	values map[string]string
}

// canonicalOverrides fixes keys where MIME canonicalization differs from
// the spelling mail software expects.
var canonicalOverrides = map[string]string{
	"Mime-Version": "MIME-Version",
}

func canonicalKey(key string) string {
	key = textproto.CanonicalMIMEHeaderKey(key)
	if fixed, ok := canonicalOverrides[key]; ok {
		return fixed
	}
	return key
}

// Set stores a header value, keeping the position of an existing key.
func (h *Header) Set(key, value string) {
	key = canonicalKey(key)
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value for key, or "" when unset.
func (h *Header) Get(key string) string {
	return h.values[canonicalKey(key)]
}

// Has reports whether key is set.
func (h *Header) Has(key string) bool {
	_, ok := h.values[canonicalKey(key)]
	return ok
}

// Del removes key.
func (h *Header) Del(key string) {
	key = canonicalKey(key)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the header names in insertion order.
func (h *Header) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Len returns the number of headers.
func (h *Header) Len() int {
	return len(h.keys)
}

func (h Header) clone() Header {
	clone := Header{keys: append([]string(nil), h.keys...)}
	if h.values != nil {
		clone.values = make(map[string]string, len(h.values))
		for k, v := range h.values {
			clone.values[k] = v
		}
	}
	return clone
}

type headerField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MarshalJSON encodes the headers as an ordered array of name/value pairs,
// so spooled messages round-trip with their header order intact.
func (h Header) MarshalJSON() ([]byte, error) {
	fields := make([]headerField, 0, len(h.keys))
	for _, k := range h.keys {
		fields = append(fields, headerField{Name: k, Value: h.values[k]})
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes the ordered name/value representation.
func (h *Header) UnmarshalJSON(data []byte) error {
	var fields []headerField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*h = Header{}
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return nil
}
