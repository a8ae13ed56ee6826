package reporting

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// WriteCorpusGraph renders the generated corpus as a Mermaid flowchart, one
// subgraph per chain showing the request sequence within it. reportDir is
// the run's report directory (reporting.GenerateReportPath's result); the
// file is written to reportDir/corpus/corpus_graphs.md.
func WriteCorpusGraph(reportDir string, chains []*input.Chain) error {
	corpusDir := filepath.Join(reportDir, "corpus")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return fmt.Errorf("reporting: creating %s: %w", corpusDir, err)
	}

	var b strings.Builder
	b.WriteString("# Corpus graph based on OpenAPI spec generated inputs\n\n")
	b.WriteString("This markdown document can be rendered using a Mermaid plugin. It demonstrates the generated sequences of API requests.\n\n")
	b.WriteString("```mermaid\n")
	b.WriteString("graph LR;\n")
	b.WriteString("  %% Inputs\n")

	indices := make([]int, len(chains))
	for i := range chains {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return len(chains[indices[i]].Requests) < len(chains[indices[j]].Requests)
	})

	for _, idx := range indices {
		chain := chains[idx]
		fmt.Fprintf(&b, "  subgraph input_%d;\n", idx)
		b.WriteString("    direction LR;\n")
		for _, req := range chain.Requests {
			fmt.Fprintf(&b, "    %d(\"%s %s\");\n", requestHash(req), req.Method, req.PathTemplate)
		}
		for i := 0; i+1 < len(chain.Requests); i++ {
			fmt.Fprintf(&b, "    %d --> %d;\n", requestHash(chain.Requests[i]), requestHash(chain.Requests[i+1]))
		}
		b.WriteString("  end;\n")
	}

	b.WriteString("```\n")

	path := filepath.Join(corpusDir, "corpus_graphs.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("reporting: writing %s: %w", path, err)
	}
	return nil
}

func requestHash(req *input.Request) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s %s", req.Method, req.PathTemplate)
	return h.Sum64()
}
