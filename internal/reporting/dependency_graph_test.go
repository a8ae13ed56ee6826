package reporting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/depgraph"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
)

func TestWriteDependencyGraphListsNodesAndEdges(t *testing.T) {
	doc, err := openapi.Load([]byte(`
openapi: "3.1.0"
info:
  title: test
  version: "1.0"
paths:
  /albums:
    post:
      operationId: createAlbum
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                title:
                  type: string
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                type: object
                properties:
                  id:
                    type: integer
  /albums/{album_id}:
    get:
      operationId: getAlbum
      parameters:
        - name: album_id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
`))
	require.NoError(t, err)

	g := depgraph.Build(doc)
	dir := t.TempDir()
	require.NoError(t, reporting.WriteDependencyGraph(dir, g))

	data, err := os.ReadFile(filepath.Join(dir, "mermaid_graph.md"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "```mermaid")
	require.Contains(t, content, "-->")
}
