// Package input holds the in-memory request-chain model: tagged Values,
// Requests addressed by parameter, and Chains of Requests linked by
// back-References.
package input

import "github.com/TNO-S3/wuppiefuzz/internal/paramaccess"

// ValueKind tags the variant a Value currently holds: an enum-of-kinds
// pattern applied to a tagged value union instead of to OpenAPI document
// nodes.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindBytes
	KindObject
	KindArray
	KindReference
)

// Reference is a promise that, at execution time, the value at Access in
// request RequestIndex's response is substituted in.
// Invariant I1 requires RequestIndex < the index of the request containing
// this Reference.
type Reference struct {
	RequestIndex int
	Access       paramaccess.ParameterAccess
}

// Value is the tagged union described in: Null, Bool, Number, String, Bytes,
// Object, Array or Reference. Exactly one field other than Kind is
// meaningful, selected by Kind — modelled as a struct-of-optionals rather
// than an interface so mutators can switch on Kind without type assertions
// leaking across package boundaries.
type Value struct {
	Kind ValueKind

	Bool    bool
	Number  float64
	String  string
	Bytes   []byte
	Object  *Object
	Array   []Value
	Ref     Reference
}

// Object is an ordered name -> Value mapping; order is preserved so
// serialise(parse(chain)) round-trips (P3).
type Object struct {
	Names  []string
	Values []Value
}

// Get returns the value for name and whether it is present.
func (o *Object) Get(name string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	for i, n := range o.Names {
		if n == name {
			return o.Values[i], true
		}
	}
	return Value{}, false
}

// Set inserts or overwrites the value for name, preserving position on
// overwrite.
func (o *Object) Set(name string, v Value) {
	for i, n := range o.Names {
		if n == name {
			o.Values[i] = v
			return
		}
	}
	o.Names = append(o.Names, name)
	o.Values = append(o.Values, v)
}

// Null, Bool, Number, String, Bytes construct leaf Values of their kind.
func Null() Value                { return Value{Kind: KindNull} }
func Bool(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value     { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value      { return Value{Kind: KindString, String: s} }
func Bytes(b []byte) Value       { return Value{Kind: KindBytes, Bytes: append([]byte(nil), b...)} }
func NewObject() Value           { return Value{Kind: KindObject, Object: &Object{}} }
func Array(items ...Value) Value { return Value{Kind: KindArray, Array: items} }
func RefValue(requestIndex int, access paramaccess.ParameterAccess) Value {
	return Value{Kind: KindReference, Ref: Reference{RequestIndex: requestIndex, Access: access}}
}

// Clone deep-copies v so mutators never alias a shared corpus entry's value
// tree.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindBytes:
		return Bytes(v.Bytes)
	case KindObject:
		if v.Object == nil {
			return Value{Kind: KindObject, Object: &Object{}}
		}
		obj := &Object{Names: append([]string(nil), v.Object.Names...)}
		obj.Values = make([]Value, len(v.Object.Values))
		for i, vv := range v.Object.Values {
			obj.Values[i] = vv.Clone()
		}
		return Value{Kind: KindObject, Object: obj}
	case KindArray:
		items := make([]Value, len(v.Array))
		for i, vv := range v.Array {
			items[i] = vv.Clone()
		}
		return Value{Kind: KindArray, Array: items}
	default:
		return v
	}
}
