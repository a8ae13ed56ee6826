package paramfeedback

import (
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

// Store holds, for one chain execution, a vector of length N mapping
// ResponseAccess -> value, one entry per request index, populated
// incrementally as the chain runs. ParameterAccess is not itself comparable
// (its Elements field is a slice), so entries are keyed by its canonical
// String form.
type Store struct {
	values []map[string]input.Value
}

// New allocates a Store sized for a chain of n requests.
func New(n int) *Store {
	return &Store{values: make([]map[string]input.Value, n)}
}

// Record stores value as observed from requestIndex's response at access,
// overwriting any prior value at the same access.
func (s *Store) Record(requestIndex int, access paramaccess.ParameterAccess, value input.Value) {
	if requestIndex < 0 || requestIndex >= len(s.values) {
		return
	}
	if s.values[requestIndex] == nil {
		s.values[requestIndex] = make(map[string]input.Value)
	}
	s.values[requestIndex][access.String()] = value
}

// Lookup returns the value recorded for requestIndex at access, if any.
func (s *Store) Lookup(requestIndex int, access paramaccess.ParameterAccess) (input.Value, bool) {
	if requestIndex < 0 || requestIndex >= len(s.values) {
		return input.Value{}, false
	}
	v, ok := s.values[requestIndex][access.String()]
	return v, ok
}

// RecordBody walks body and records every reachable node — object, array,
// and leaf alike — under its own Body access, so a later Reference can
// address either a leaf field or an entire nested structure.
func (s *Store) RecordBody(requestIndex int, body input.Value) {
	walkBody(body, nil, func(elements []paramaccess.Element, v input.Value) {
		s.Record(requestIndex, paramaccess.NewBody(elements...), v)
	})
}

// RecordCookies records one flat (Cookie, name) -> value entry per cookie
// observed in requestIndex's response.
func (s *Store) RecordCookies(requestIndex int, cookies map[string]string) {
	for name, value := range cookies {
		s.Record(requestIndex, paramaccess.NewNonBody(paramaccess.KindCookie, name), input.String(value))
	}
}

func walkBody(v input.Value, prefix []paramaccess.Element, visit func(elements []paramaccess.Element, v input.Value)) {
	visit(prefix, v)
	switch v.Kind {
	case input.KindObject:
		if v.Object == nil {
			return
		}
		for i, name := range v.Object.Names {
			walkBody(v.Object.Values[i], append(append([]paramaccess.Element(nil), prefix...), paramaccess.Name(name)), visit)
		}
	case input.KindArray:
		for i, item := range v.Array {
			walkBody(item, append(append([]paramaccess.Element(nil), prefix...), paramaccess.Offset(i)), visit)
		}
	}
}
