package fuzzer

import "github.com/TNO-S3/wuppiefuzz/internal/coverage"

// MultiMap concatenates several coverage.Client bitmaps into the one flat
// snapshot the scheduler and feedback layer see.
type MultiMap struct {
	clients []coverage.Client
	offsets []int
	total   int
}

// NewMultiMap builds a MultiMap over clients, in order; Region(i) addresses
// the i'th client's slice within Snapshot's result.
func NewMultiMap(clients ...coverage.Client) *MultiMap {
	m := &MultiMap{clients: clients, offsets: make([]int, len(clients))}
	for i := range clients {
		m.offsets[i] = m.total
		m.total += coverage.MapSize
	}
	return m
}

// Region returns the (offset, length) sub-slice of Snapshot's result that
// belongs to the i'th client.
func (m *MultiMap) Region(i int) (offset, length int) {
	return m.offsets[i], coverage.MapSize
}

// Len returns the total combined snapshot length.
func (m *MultiMap) Len() int { return m.total }

// Snapshot copies every client's current bitmap into one flat buffer in
// client order, zero-padding past each client's Len().
func (m *MultiMap) Snapshot() []byte {
	out := make([]byte, m.total)
	for i, c := range m.clients {
		copy(out[m.offsets[i]:m.offsets[i]+coverage.MapSize], c.Ptr())
	}
	return out
}
