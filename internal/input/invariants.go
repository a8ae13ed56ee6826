package input

import "fmt"

// Validate checks invariants I1 and I2 over the whole chain and returns the
// first violation found. It is the release-mode validity check mutators can
// call after every edit; assert_valid is this same check wired to panic in
// debug builds instead of returning an error.
func (c *Chain) Validate() error {
	for i, r := range c.Requests {
		seen := make(map[ParameterKey]bool, len(r.Parameters))
		for key := range r.Parameters {
			if seen[key] {
				return fmt.Errorf("input: request %d has duplicate parameter %v (I2)", i, key)
			}
			seen[key] = true
		}

		var badRef error
		VisitRequestReferences(r, func(ref Reference) {
			if badRef != nil {
				return
			}
			if ref.RequestIndex >= i {
				badRef = fmt.Errorf("input: request %d contains forward/self Reference to request %d (I1)", i, ref.RequestIndex)
			}
		})
		if badRef != nil {
			return badRef
		}
	}
	return nil
}

// AssertValid panics with msg if the chain violates I1/I2 — the debug-only
// counterpart of Validate, named for parity with the mutator fleet's
// assert_valid calls, invoked by mutator.go after every mutation when built
// with the "wuppiefuzz_debug" build tag.
func (c *Chain) AssertValid(mutatorName string) {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("input: invariant violated after mutator %q: %v", mutatorName, err))
	}
}
