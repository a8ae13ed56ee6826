package reporting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
)

func TestWriteCorpusGraphRendersOneSubgraphPerChain(t *testing.T) {
	dir := t.TempDir()
	chains := []*input.Chain{
		input.NewChain(
			input.NewRequest(openapi.MethodPost, "/albums"),
			input.NewRequest(openapi.MethodGet, "/albums/{id}"),
		),
		input.NewChain(input.NewRequest(openapi.MethodGet, "/health")),
	}

	require.NoError(t, reporting.WriteCorpusGraph(dir, chains))

	data, err := os.ReadFile(filepath.Join(dir, "corpus", "corpus_graphs.md"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "```mermaid")
	require.Contains(t, content, "subgraph input_0")
	require.Contains(t, content, "subgraph input_1")
	require.Contains(t, content, "-->")
}
