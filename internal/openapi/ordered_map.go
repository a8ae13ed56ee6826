package openapi

// KeyValue is one entry of an OrderedMap. OpenAPI documents are JSON
// objects, and field order matters when we re-serialise a chain for a
// deterministic on-disk hash, so plain Go maps (unordered) are not used for
// document-shaped data.
type KeyValue[T any] struct {
	Key   string
	Value T
}

// OrderedMap preserves insertion order while still supporting O(n) lookups,
// which is fine at OpenAPI-document scale (tens to low hundreds of entries).
type OrderedMap[T any] struct {
	Items []KeyValue[T]
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap[T]) Get(key string) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	for _, kv := range m.Items {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return zero, false
}

// Set inserts or overwrites the value for key, preserving its original
// position if it already existed.
func (m *OrderedMap[T]) Set(key string, value T) {
	for i, kv := range m.Items {
		if kv.Key == key {
			m.Items[i].Value = value
			return
		}
	}
	m.Items = append(m.Items, KeyValue[T]{Key: key, Value: value})
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[T]) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.Items))
	for i, kv := range m.Items {
		keys[i] = kv.Key
	}
	return keys
}

// Len returns the number of entries, 0 for a nil map.
func (m *OrderedMap[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}
