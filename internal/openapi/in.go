package openapi

// In is the location a parameter is bound to in a request.
type In string

const (
	// InQuery parameters are appended to the URL, e.g. ?id=1.
	InQuery In = "query"
	// InHeader parameters are custom HTTP headers. Names are case-insensitive.
	InHeader In = "header"
	// InCookie parameters are passed as a named cookie value.
	InCookie In = "cookie"
	// InPath parameters fill a {name} placeholder in the path template.
	InPath In = "path"
)

func (in In) String() string { return string(in) }
