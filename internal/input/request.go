package input

import "github.com/TNO-S3/wuppiefuzz/internal/openapi"

// BodyVariant is the content-type family of a request body, constrained by
// invariant I4 to stay consistent with the operation's declared media types.
type BodyVariant int

const (
	BodyEmpty BodyVariant = iota
	BodyTextPlain
	BodyApplicationJSON
	BodyFormURLEncoded
)

func (b BodyVariant) String() string {
	switch b {
	case BodyTextPlain:
		return "TextPlain"
	case BodyApplicationJSON:
		return "ApplicationJson"
	case BodyFormURLEncoded:
		return "XWwwFormUrlencoded"
	default:
		return "Empty"
	}
}

// ParameterKey addresses one non-body parameter within a Request by
// (kind, name) — invariant I2 requires this pair be unique per Request.
type ParameterKey struct {
	In   openapi.In
	Name string
}

// Request is one HTTP request in a chain: a method and path template (with
// {name} placeholders still unresolved against Parameters[Path,*]), a body
// variant + value, and a map of non-body parameters to their (possibly
// referenced) values.
type Request struct {
	Method       openapi.Method
	PathTemplate string

	Body        BodyVariant
	BodyValue   Value

	Parameters map[ParameterKey]Value
}

// NewRequest builds an empty Request for (method, pathTemplate).
func NewRequest(method openapi.Method, pathTemplate string) *Request {
	return &Request{
		Method:       method,
		PathTemplate: pathTemplate,
		Parameters:   make(map[ParameterKey]Value),
	}
}

// Clone deep-copies r.
func (r *Request) Clone() *Request {
	clone := &Request{
		Method:       r.Method,
		PathTemplate: r.PathTemplate,
		Body:         r.Body,
		BodyValue:    r.BodyValue.Clone(),
		Parameters:   make(map[ParameterKey]Value, len(r.Parameters)),
	}
	for k, v := range r.Parameters {
		clone.Parameters[k] = v.Clone()
	}
	return clone
}

// Chain is an ordered, non-empty sequence of Requests treated as a single
// fuzzing unit.
type Chain struct {
	Requests []*Request
}

// NewChain builds a Chain from requests, which must be non-empty.
func NewChain(requests ...*Request) *Chain {
	return &Chain{Requests: requests}
}

// Clone deep-copies the chain so mutators never alias a shared corpus entry.
func (c *Chain) Clone() *Chain {
	clone := &Chain{Requests: make([]*Request, len(c.Requests))}
	for i, r := range c.Requests {
		clone.Requests[i] = r.Clone()
	}
	return clone
}

// Len returns the number of requests in the chain.
func (c *Chain) Len() int { return len(c.Requests) }
