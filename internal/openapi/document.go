package openapi

// Document is the normalised view of a loaded OpenAPI document: every
// operation across every path item, with path-level parameters already
// merged in and $ref left lazily resolvable via Components.
type Document struct {
	Version    string
	Components *Components
	Paths      *OrderedMap[*PathItem]
}

// PathItem groups the operations declared for one path template.
type PathItem struct {
	Location     Location
	PathTemplate string
	Parameters   []*Parameter // path-level parameters, merged into each Operation below
	Operations   *OrderedMap[*Operation]
}

// Operations iterates every operation in the document, in path-declaration
// order and then CRUD method order within a path — the deterministic
// tie-break order the dependency-graph toposort relies on.
func (d *Document) Operations() []*Operation {
	var out []*Operation
	for _, pathKV := range d.Paths.Items {
		ops := append([]*Operation(nil), pathKV.Value.Operations.Items...)
		sortOperationsByCRUD(ops)
		for _, opKV := range ops {
			out = append(out, opKV.Value)
		}
	}
	return out
}

func sortOperationsByCRUD(ops []KeyValue[*Operation]) {
	for i := 1; i < len(ops); i++ {
		j := i
		for j > 0 && ops[j].Value.Method.LessCRUD(ops[j-1].Value.Method) {
			ops[j], ops[j-1] = ops[j-1], ops[j]
			j--
		}
	}
}

// FindOperation returns the operation declared for (method, pathTemplate),
// used by mutators (DifferentPath/DifferentMethod) to pick a replacement.
func (d *Document) FindOperation(method Method, pathTemplate string) (*Operation, bool) {
	item, ok := d.Paths.Get(pathTemplate)
	if !ok {
		return nil, false
	}
	return item.Operations.Get(string(method))
}

// OperationsForPath returns every method declared for pathTemplate, in CRUD
// order — used by the DifferentMethod/FollowSpec mutator strategy.
func (d *Document) OperationsForPath(pathTemplate string) []*Operation {
	item, ok := d.Paths.Get(pathTemplate)
	if !ok {
		return nil
	}
	ops := append([]KeyValue[*Operation](nil), item.Operations.Items...)
	sortOperationsByCRUD(ops)
	out := make([]*Operation, len(ops))
	for i, kv := range ops {
		out[i] = kv.Value
	}
	return out
}
