package coverage

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"

	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// coverageState is one (method, path, status) triplet's observation state.
type coverageState int

const (
	expectedNotFound coverageState = iota
	expectedFound
	unexpectedFound
)

type endpointEntry struct {
	method, pathTemplate, status string
	state                        coverageState
}

// Endpoint is the always-available coverage client that treats every
// declared (method, path, status) response triplet in the spec as a
// coverage target, and anything else the target returns as "unexpected"
// coverage. It doubles as the executor's EndpointCoverage sink via Observe.
type Endpoint struct {
	mu sync.Mutex

	order   []string // index -> key, insertion order fixed after construction
	indices map[string]int
	entries map[string]*endpointEntry

	covMap      []byte
	covMapTotal []byte
	maxRatio    [2]uint64
}

// NewEndpoint seeds the coverage map with every (method, path, status)
// triplet doc declares, marked unreached, so the ratio reported before the
// first request is 0 / (declared response count).
func NewEndpoint(doc *openapi.Document) *Endpoint {
	e := &Endpoint{
		entries:     make(map[string]*endpointEntry),
		indices:     make(map[string]int),
		covMap:      make([]byte, MapSize),
		covMapTotal: make([]byte, MapSize),
	}
	for _, op := range doc.Operations() {
		if op.Responses == nil {
			continue
		}
		for _, kv := range op.Responses.Items {
			e.insertExpected(string(op.Method), op.PathTemplate, kv.Key)
		}
	}
	e.maxRatio[1] = uint64(len(e.order))
	return e
}

func key(method, pathTemplate, status string) string {
	return method + " " + pathTemplate + " " + status
}

func (e *Endpoint) insertExpected(method, pathTemplate, status string) {
	k := key(method, pathTemplate, status)
	if _, ok := e.entries[k]; ok {
		return
	}
	e.indices[k] = len(e.order)
	e.order = append(e.order, k)
	e.entries[k] = &endpointEntry{method: method, pathTemplate: pathTemplate, status: status, state: expectedNotFound}
}

// Observe records that (method, pathTemplate) returned status, implementing
// executor.EndpointCoverage. A triplet the spec never declared is recorded
// as "unexpected" coverage rather than dropped, the same way
// Vacant branch does.
func (e *Endpoint) Observe(method openapi.Method, pathTemplate string, status int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	k := key(string(method), pathTemplate, fmt.Sprintf("%d", status))
	entry, ok := e.entries[k]
	if !ok {
		entry = &endpointEntry{method: string(method), pathTemplate: pathTemplate, status: fmt.Sprintf("%d", status), state: unexpectedFound}
		e.indices[k] = len(e.order)
		e.order = append(e.order, k)
		e.entries[k] = entry
	} else if entry.state == expectedNotFound {
		entry.state = expectedFound
	}

	idx, ok := e.indices[k]
	if ok && idx/8 < len(e.covMap) {
		e.covMap[idx/8] |= 1 << (uint(idx) % 8)
		e.covMapTotal[idx/8] |= 1 << (uint(idx) % 8)
	}
}

// Fetch is a no-op for Endpoint: coverage is driven entirely by Observe
// calls made as the executor runs, not by polling a remote agent. reset
// clears the running bitmap, mirroring the "reset on first poll of a chain"
// behaviour the other clients implement against a real agent.
func (e *Endpoint) Fetch(reset bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if reset {
		for i := range e.covMap {
			e.covMap[i] = 0
		}
	}
	return nil
}

// Ptr returns the live coverage bitmap.
func (e *Endpoint) Ptr() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.covMapTotal
}

// Len returns the number of declared-or-observed triplets tracked so far.
func (e *Endpoint) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.order)
}

// MaxRatio returns the highest (hit, total) pair observed so far, where hit
// counts triplets with at least one observation and total is the number of
// triplets known (declared plus unexpected).
func (e *Endpoint) MaxRatio() (hit, total uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var h uint64
	for _, entry := range e.entries {
		if entry.state != expectedNotFound {
			h++
		}
	}
	t := uint64(len(e.order))
	if h > e.maxRatio[0] {
		e.maxRatio[0] = h
	}
	if t > e.maxRatio[1] {
		e.maxRatio[1] = t
	}
	return e.maxRatio[0], e.maxRatio[1]
}

var endpointReportTemplate = template.Must(template.New("endpoint").Parse(`<!DOCTYPE html>
<html>
<head><title>Endpoint coverage report</title></head>
<body>
<h1>Endpoint coverage</h1>
<table border="1">
<tr><th>Method</th><th>Path</th><th>Status</th><th>Result</th></tr>
{{range .}}<tr><td>{{.Method}}</td><td>{{.Path}}</td><td>{{.Status}}</td><td>{{.Result}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

type endpointReportRow struct {
	Method, Path, Status, Result string
}

// WriteReport renders an HTML table of every (method, path, status)
// triplet and whether it was expected-and-hit, expected-but-missed, or hit
// without being declared in the spec.
func (e *Endpoint) WriteReport(dir string) error {
	e.mu.Lock()
	rows := make([]endpointReportRow, 0, len(e.order))
	for _, k := range e.order {
		entry := e.entries[k]
		result := "missed"
		switch entry.state {
		case expectedFound:
			result = "hit"
		case unexpectedFound:
			result = "unexpected"
		}
		rows = append(rows, endpointReportRow{Method: entry.method, Path: entry.pathTemplate, Status: entry.status, Result: result})
	}
	e.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("coverage: creating report directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "endpoint_coverage.html"))
	if err != nil {
		return fmt.Errorf("coverage: creating endpoint report: %w", err)
	}
	defer f.Close()

	return endpointReportTemplate.Execute(f, rows)
}
