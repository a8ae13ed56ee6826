package depgraph

import "github.com/TNO-S3/wuppiefuzz/internal/paramaccess"

// ParameterMatching annotates an Edge with the output/input pair that
// caused it and the normalised key they matched on.
type ParameterMatching struct {
	OutputAccess paramaccess.ParameterAccess
	InputAccess  paramaccess.ParameterAccess
	Normalized   string
}

// Edge is a directed dependency from From to To: To needs a value From can
// supply.
type Edge struct {
	From, To int
	Matching ParameterMatching
}
