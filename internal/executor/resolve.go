package executor

import (
	"errors"
	"fmt"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
)

// ErrUnresolvedReference is wrapped into the error ResolveRequest returns
// when a chain references a value no earlier request in the chain ever
// produced, so callers can distinguish it (with errors.Is) from a body
// encoding failure or similar.
var ErrUnresolvedReference = errors.New("executor: unresolved reference")

// ResolveRequest clones req and replaces every Reference value it (or its
// body tree) contains with the concrete value recorded in store step 1. A
// reference that resolves to nothing recorded — an earlier request in the
// chain never ran, or broke before reaching that point — fails only this
// request; the caller breaks the chain there without treating it as a
// transport or program error.
func ResolveRequest(req *input.Request, store *paramfeedback.Store) (*input.Request, error) {
	resolved := req.Clone()

	body, err := resolveValue(resolved.BodyValue, store)
	if err != nil {
		return nil, err
	}
	resolved.BodyValue = body

	for key, v := range resolved.Parameters {
		r, err := resolveValue(v, store)
		if err != nil {
			return nil, err
		}
		resolved.Parameters[key] = r
	}
	return resolved, nil
}

func resolveValue(v input.Value, store *paramfeedback.Store) (input.Value, error) {
	switch v.Kind {
	case input.KindReference:
		resolved, ok := store.Lookup(v.Ref.RequestIndex, v.Ref.Access)
		if !ok {
			return input.Value{}, fmt.Errorf("%w: request %d's %s", ErrUnresolvedReference, v.Ref.RequestIndex, v.Ref.Access)
		}
		return resolved, nil
	case input.KindObject:
		if v.Object == nil {
			return v, nil
		}
		obj := &input.Object{
			Names:  append([]string(nil), v.Object.Names...),
			Values: make([]input.Value, len(v.Object.Values)),
		}
		for i, vv := range v.Object.Values {
			r, err := resolveValue(vv, store)
			if err != nil {
				return input.Value{}, err
			}
			obj.Values[i] = r
		}
		return input.Value{Kind: input.KindObject, Object: obj}, nil
	case input.KindArray:
		items := make([]input.Value, len(v.Array))
		for i, vv := range v.Array {
			r, err := resolveValue(vv, store)
			if err != nil {
				return input.Value{}, err
			}
			items[i] = r
		}
		return input.Value{Kind: input.KindArray, Array: items}, nil
	default:
		return v, nil
	}
}
