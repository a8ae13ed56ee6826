package input

// VisitReferences calls fn for every Reference value reachable from v
// (including v itself), covering both parameter values and nested body
// fields/array elements — the walk mutators and fix_broken_references use
// to find every back-reference in a Request.
func VisitReferences(v Value, fn func(ref Reference)) {
	switch v.Kind {
	case KindReference:
		fn(v.Ref)
	case KindObject:
		if v.Object != nil {
			for _, child := range v.Object.Values {
				VisitReferences(child, fn)
			}
		}
	case KindArray:
		for _, child := range v.Array {
			VisitReferences(child, fn)
		}
	}
}

// MapReferences returns a copy of v with every reachable Reference value
// replaced by the result of fn, which may itself return a Reference (to
// rewrite one) or any other Value (to break the link).
func MapReferences(v Value, fn func(ref Reference) Value) Value {
	switch v.Kind {
	case KindReference:
		return fn(v.Ref)
	case KindObject:
		if v.Object == nil {
			return v
		}
		obj := &Object{Names: append([]string(nil), v.Object.Names...), Values: make([]Value, len(v.Object.Values))}
		for i, child := range v.Object.Values {
			obj.Values[i] = MapReferences(child, fn)
		}
		return Value{Kind: KindObject, Object: obj}
	case KindArray:
		items := make([]Value, len(v.Array))
		for i, child := range v.Array {
			items[i] = MapReferences(child, fn)
		}
		return Value{Kind: KindArray, Array: items}
	default:
		return v
	}
}

// VisitRequestReferences calls fn for every Reference in request r's body
// and parameter values.
func VisitRequestReferences(r *Request, fn func(ref Reference)) {
	VisitReferences(r.BodyValue, fn)
	for _, v := range r.Parameters {
		VisitReferences(v, fn)
	}
}

// MapRequestReferences rewrites every Reference in r's body and parameter
// values via fn, in place.
func MapRequestReferences(r *Request, fn func(ref Reference) Value) {
	r.BodyValue = MapReferences(r.BodyValue, fn)
	for k, v := range r.Parameters {
		r.Parameters[k] = MapReferences(v, fn)
	}
}
