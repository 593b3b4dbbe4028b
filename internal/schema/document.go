package schema

import (
	"encoding/json"
	"maps"
	"time"
)

// Merge returns a new document holding the keys of every layer, later
// layers winning. A nil value in a later layer removes the key.
func Merge(layers ...Document) Document {
	out := Document{}
	for _, l := range layers {
		for k, v := range l {
			if v == nil {
				delete(out, k)
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	return maps.Clone(d)
}

// Has reports whether key is present with a non-nil value.
func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// String returns the string stored under key, or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// StringPtr returns a pointer to the string stored under key, or nil when
// the key is absent.
func (d Document) StringPtr(key string) *string {
	s, ok := d[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// Time returns the timestamp stored under key, or the zero time.
func (d Document) Time(key string) time.Time {
	t, _ := d[key].(time.Time)
	return t
}

// TimePtr returns a pointer to the timestamp stored under key, or nil.
func (d Document) TimePtr(key string) *time.Time {
	t, ok := d[key].(time.Time)
	if !ok {
		return nil
	}
	return &t
}

// Int64 returns the number stored under key truncated to int64, or 0.
func (d Document) Int64(key string) int64 {
	switch v := d[key].(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
