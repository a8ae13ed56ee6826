package openapi

// Parameter describes one non-body input to an operation: its name,
// location (In), schema and serialization style.
type Parameter struct {
	Location Location
	Ref      *Reference

	Name     string
	In       In
	Required bool
	Schema   *Schema
	Style    Style
	Explode  bool
	Example  any
}

// EffectiveStyle returns p.Style, falling back to the location's default
// when unset.
func (p *Parameter) EffectiveStyle() Style {
	if p.Style != "" {
		return p.Style
	}
	return DefaultStyle(p.In)
}

// key identifies a parameter within a request by (kind, name), the
// uniqueness axis of invariant I2.
type key struct {
	In   In
	Name string
}

// mergePathParameters folds path-item-level parameters into an operation's
// own parameter list: "parameters declared at the path level are merged into
// every contained operation unless a same-named parameter already exists
// locally."
func mergePathParameters(opParams, pathParams []*Parameter) []*Parameter {
	seen := make(map[key]bool, len(opParams))
	for _, p := range opParams {
		seen[key{p.In, p.Name}] = true
	}
	merged := make([]*Parameter, len(opParams), len(opParams)+len(pathParams))
	copy(merged, opParams)
	for _, p := range pathParams {
		if !seen[key{p.In, p.Name}] {
			merged = append(merged, p)
		}
	}
	return merged
}
