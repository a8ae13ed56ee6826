package input

import "github.com/TNO-S3/wuppiefuzz/internal/paramaccess"

// Resolve walks body along access.Elements, returning the Value found there.
// It fails (ok=false) on type mismatch or an out-of-range offset, per
// access must be a Body access; non-Body accesses have no structure to walk
// and are resolved directly against the parameter map by the executor
// instead.
func Resolve(body Value, access paramaccess.ParameterAccess) (Value, bool) {
	cur := body
	for _, el := range access.Elements {
		if el.IsOffset {
			if cur.Kind != KindArray || el.Offset < 0 || el.Offset >= len(cur.Array) {
				return Value{}, false
			}
			cur = cur.Array[el.Offset]
			continue
		}
		if cur.Kind != KindObject {
			return Value{}, false
		}
		v, ok := cur.Object.Get(el.Name)
		if !ok {
			return Value{}, false
		}
		cur = v
	}
	return cur, true
}

// Cursor is a mutable handle into a Value tree, returned by ResolveMut, that
// lets a caller overwrite the addressed location in place.
type Cursor struct {
	set func(Value)
	get func() Value
}

// Get returns the value the cursor currently points at.
func (c Cursor) Get() Value { return c.get() }

// Set overwrites the value the cursor points at.
func (c Cursor) Set(v Value) { c.set(v) }

// ResolveMut is Resolve's mutable counterpart: it walks body along
// access.Elements and returns a Cursor that can overwrite the addressed
// element, or ok=false on the same failure conditions as Resolve.
func ResolveMut(body *Value, access paramaccess.ParameterAccess) (Cursor, bool) {
	cur := body
	for _, el := range access.Elements {
		if el.IsOffset {
			if cur.Kind != KindArray || el.Offset < 0 || el.Offset >= len(cur.Array) {
				return Cursor{}, false
			}
			cur = &cur.Array[el.Offset]
			continue
		}
		if cur.Kind != KindObject {
			return Cursor{}, false
		}
		idx := -1
		for i, n := range cur.Object.Names {
			if n == el.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return Cursor{}, false
		}
		cur = &cur.Object.Values[idx]
	}
	target := cur
	return Cursor{
		get: func() Value { return *target },
		set: func(v Value) { *target = v },
	}, true
}
