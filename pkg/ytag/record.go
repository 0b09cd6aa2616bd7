package ytag

import (
	"fmt"
	"strings"
)

// Record is a dynamic mapping decoded from a YAML node. Every key is stored
// under its normalized name (see NormalizeAttr), so the same value answers
// both the original document spelling and the identifier-safe spelling:
//
//	rec.Set("attr w/ spaces", 78)
//	rec.Get("attr_w_spaces") // 78
//	rec.Get("attr w/ spaces") // 78
//
// Keys iterate in insertion order. Two distinct labels that normalize to
// the same key collide silently: the later Set wins. The zero value is an
// empty record ready for use, which is what lets domain types embed Record
// and register through RegisterRecord.
type Record struct {
	keys []string
	vals map[string]any
}

// Item is one ordered (key, value) entry of a Record.
type Item struct {
	Key   string
	Value any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// RecordFromMap builds a record by calling Set for every entry of m, in
// m's iteration order. Nested raw mappings are wrapped into nested records.
func RecordFromMap(m map[string]any) *Record {
	r := NewRecord()
	for k, v := range m {
		r.Set(k, v)
	}
	return r
}

func (r *Record) ensure() {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
}

// recordBacking anchors the recordPtr constraint used by RegisterRecord.
func (r *Record) recordBacking() *Record { return r }

// Set stores value under the normalized form of key. A raw map[string]any
// value is wrapped into a nested Record at assignment time, recursively.
// Values that are already records are stored as-is.
func (r *Record) Set(key string, value any) {
	r.ensure()
	if m, ok := value.(map[string]any); ok {
		value = RecordFromMap(m)
	}
	nkey := NormalizeAttr(key)
	if _, exists := r.vals[nkey]; !exists {
		r.keys = append(r.keys, nkey)
	}
	r.vals[nkey] = value
}

// Get returns the value stored under the normalized form of key, or a
// *KeyNotFoundError carrying the key as spelled by the caller.
func (r *Record) Get(key string) (any, error) {
	if r.vals == nil {
		return nil, &KeyNotFoundError{Key: key}
	}
	v, ok := r.vals[NormalizeAttr(key)]
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}
	return wrapRaw(v), nil
}

// GetDefault returns the value stored under the normalized form of key, or
// def when the key is absent. Like Get it wraps raw mappings on the fly, so
// a map default comes back as a fresh Record sharing the map's entries.
func (r *Record) GetDefault(key string, def any) any {
	if r.vals == nil {
		return wrapRaw(def)
	}
	v, ok := r.vals[NormalizeAttr(key)]
	if !ok {
		return wrapRaw(def)
	}
	return wrapRaw(v)
}

// wrapRaw wraps a raw mapping read back out of the store. This only fires
// for values that bypassed Set (ToMap gives callers the backing store) and
// for GetDefault defaults; the wrapper is a new object on every call.
func wrapRaw(v any) any {
	if m, ok := v.(map[string]any); ok {
		return RecordFromMap(m)
	}
	return v
}

// Has reports whether the normalized form of key is present.
func (r *Record) Has(key string) bool {
	if r.vals == nil {
		return false
	}
	_, ok := r.vals[NormalizeAttr(key)]
	return ok
}

// Keys returns the normalized keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Items returns the (key, value) entries in insertion order, wrapping raw
// mapping values the same way Get does.
func (r *Record) Items() []Item {
	items := make([]Item, 0, len(r.keys))
	for _, k := range r.keys {
		items = append(items, Item{Key: k, Value: wrapRaw(r.vals[k])})
	}
	return items
}

// Len returns the number of entries.
func (r *Record) Len() int { return len(r.keys) }

// ToMap returns the record's backing store. Only normalized keys survive;
// the original document spellings are not recoverable. The map is shared
// with the record, not copied.
func (r *Record) ToMap() map[string]any {
	r.ensure()
	return r.vals
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("Record(")
	for i, k := range r.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, r.vals[k])
	}
	b.WriteString(")")
	return b.String()
}
