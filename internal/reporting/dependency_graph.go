package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TNO-S3/wuppiefuzz/internal/depgraph"
)

// WriteDependencyGraph renders the operation dependency graph (every node
// as a labeled box, every edge annotated with the parameter it matches on)
// as a Mermaid flowchart. The file is written to reportDir/mermaid_graph.md.
func WriteDependencyGraph(reportDir string, g *depgraph.Graph) error {
	var b strings.Builder
	b.WriteString("# Operation dependency graph\n\n")
	b.WriteString("This markdown document can be rendered using a Mermaid plugin. Each node is one operation; an edge means a later operation consumes a value an earlier one produces.\n\n")
	b.WriteString("```mermaid\n")
	b.WriteString("graph LR;\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %d(\"%s %s\");\n", n.Index, n.Operation.Method, n.Operation.PathTemplate)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %d -->|%s| %d;\n", e.From, e.Matching.Normalized, e.To)
	}

	b.WriteString("```\n")

	path := filepath.Join(reportDir, "mermaid_graph.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("reporting: writing %s: %w", path, err)
	}
	return nil
}
