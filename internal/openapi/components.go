package openapi

// Components holds the document's reusable definitions, addressed by
// "#/components/<section>/<name>" references.
type Components struct {
	Schemas       *OrderedMap[*Schema]
	Parameters    *OrderedMap[*Parameter]
	RequestBodies *OrderedMap[*RequestBody]
	Responses     *OrderedMap[*Response]
}

func newComponents() *Components {
	return &Components{
		Schemas:       &OrderedMap[*Schema]{},
		Parameters:    &OrderedMap[*Parameter]{},
		RequestBodies: &OrderedMap[*RequestBody]{},
		Responses:     &OrderedMap[*Response]{},
	}
}

// ResolveSchema follows s.Ref (if any) to an inline schema lazy resolve(api)
// contract. A schema with a nil Ref resolves to itself.
func (c *Components) ResolveSchema(s *Schema) (*Schema, error) {
	if s == nil || s.Ref == nil {
		return s, nil
	}
	return resolveSchema(c, s.Ref.Ref, nil)
}

// ResolveParameter follows p.Ref (if any) to an inline parameter.
func (c *Components) ResolveParameter(p *Parameter) (*Parameter, error) {
	if p == nil || p.Ref == nil {
		return p, nil
	}
	return resolveParameter(c, p.Ref.Ref)
}

// ResolveRequestBody follows b.Ref (if any) to an inline request body.
func (c *Components) ResolveRequestBody(b *RequestBody) (*RequestBody, error) {
	if b == nil || b.Ref == nil {
		return b, nil
	}
	return resolveRequestBody(c, b.Ref.Ref)
}

// ResolveResponse follows r.Ref (if any) to an inline response.
func (c *Components) ResolveResponse(r *Response) (*Response, error) {
	if r == nil || r.Ref == nil {
		return r, nil
	}
	return resolveResponse(c, r.Ref.Ref)
}
