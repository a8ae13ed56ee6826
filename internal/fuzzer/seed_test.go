package fuzzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/fuzzer"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

const albumsSpec = `
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
                  example: "Abbey Road"
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
`

func TestBuildSeedChainsLinksCreateToGet(t *testing.T) {
	doc, err := openapi.Load([]byte(albumsSpec))
	require.NoError(t, err)

	chains, err := fuzzer.BuildSeedChains(doc)
	require.NoError(t, err)
	require.NotEmpty(t, chains)

	chain := chains[0]
	require.Len(t, chain.Requests, 2)
	require.Equal(t, openapi.MethodPost, chain.Requests[0].Method)
	require.Equal(t, openapi.MethodGet, chain.Requests[1].Method)

	pathParam := chain.Requests[1].Parameters[input.ParameterKey{In: openapi.InPath, Name: "album_id"}]
	require.Equal(t, input.KindReference, pathParam.Kind, "the path parameter should be wired back to createAlbum's output")
}

func TestBuildSeedChainsExpandsCartesianProductAcrossComponent(t *testing.T) {
	const multiExampleSpec = `
openapi: "3.1.0"
info:
  title: test
  version: "1.0"
paths:
  /albums:
    post:
      operationId: createAlbum
      parameters:
        - name: format
          in: query
          required: true
          schema:
            type: string
            enum: ["json", "xml"]
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                title:
                  type: string
                  example: "Abbey Road"
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
        - name: verbose
          in: query
          required: true
          schema:
            type: boolean
      responses:
        "200":
          description: ok
`
	doc, err := openapi.Load([]byte(multiExampleSpec))
	require.NoError(t, err)

	chains, err := fuzzer.BuildSeedChains(doc)
	require.NoError(t, err)

	// createAlbum contributes 2 variants (format: json/xml); getAlbum's
	// album_id is forced single-valued since a dependency edge overwrites
	// it with a reference, but verbose contributes 2 variants (true/false),
	// so the component yields the full 2*2 = 4 combinations rather than a
	// single canonical chain plus one swap per node.
	require.Len(t, chains, 4)

	seenFormats := map[string]bool{}
	seenVerbose := map[bool]bool{}
	for _, chain := range chains {
		require.Len(t, chain.Requests, 2)

		pathParam := chain.Requests[1].Parameters[input.ParameterKey{In: openapi.InPath, Name: "album_id"}]
		require.Equal(t, input.KindReference, pathParam.Kind)

		format := chain.Requests[0].Parameters[input.ParameterKey{In: openapi.InQuery, Name: "format"}]
		require.Equal(t, input.KindString, format.Kind)
		seenFormats[format.String] = true

		verbose := chain.Requests[1].Parameters[input.ParameterKey{In: openapi.InQuery, Name: "verbose"}]
		require.Equal(t, input.KindBool, verbose.Kind)
		seenVerbose[verbose.Bool] = true
	}
	require.Len(t, seenFormats, 2)
	require.Len(t, seenVerbose, 2)
}

func TestBuildSeedChainsHandlesDisconnectedOperations(t *testing.T) {
	const singleOpSpec = `
openapi: "3.1.0"
info:
  title: test
  version: "1.0"
paths:
  /health:
    get:
      operationId: health
      responses:
        "200":
          description: ok
`
	doc, err := openapi.Load([]byte(singleOpSpec))
	require.NoError(t, err)

	chains, err := fuzzer.BuildSeedChains(doc)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0].Requests, 1)
}
