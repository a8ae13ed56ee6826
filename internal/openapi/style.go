package openapi

// Style describes how a parameter's value is serialized into the request.
// Only the subset the executor and examples packages act on is modelled;
// unrecognised styles fall back to StyleSimple/StyleForm defaults.
type Style string

const (
	StyleForm          Style = "form"
	StyleSimple        Style = "simple"
	StyleMatrix        Style = "matrix"
	StyleLabel         Style = "label"
	StyleDeepObject    Style = "deepObject"
	StylePipeDelimited Style = "pipeDelimited"
	StyleSpaceDelim    Style = "spaceDelimited"
)

// DefaultStyle returns the style a parameter uses when none is declared,
// per the OpenAPI spec's per-location defaults.
func DefaultStyle(in In) Style {
	switch in {
	case InQuery, InCookie:
		return StyleForm
	default:
		return StyleSimple
	}
}
