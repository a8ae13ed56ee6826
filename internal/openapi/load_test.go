package openapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

const artistsAlbumsSpec = `
openapi: "3.1.0"
info:
  title: test
  version: "1.0"
paths:
  /artists:
    post:
      operationId: createArtist
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
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
  /albums:
    get:
      operationId: listAlbums
      parameters:
        - name: artist_id
          in: query
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
`

func TestLoadBasicDocument(t *testing.T) {
	doc, err := openapi.Load([]byte(artistsAlbumsSpec))
	require.NoError(t, err)
	require.Equal(t, "3.1.0", doc.Version)

	ops := doc.Operations()
	require.Len(t, ops, 2)

	artists, ok := doc.FindOperation(openapi.MethodPost, "/artists")
	require.True(t, ok)
	require.Equal(t, "createArtist", artists.OperationID)
	require.NotNil(t, artists.RequestBody)

	albums, ok := doc.FindOperation(openapi.MethodGet, "/albums")
	require.True(t, ok)
	require.Len(t, albums.Parameters, 1)
	require.Equal(t, "artist_id", albums.Parameters[0].Name)
	require.Equal(t, openapi.InQuery, albums.Parameters[0].In)
}

func TestLoadMergesPathLevelParameters(t *testing.T) {
	const spec = `
openapi: "3.1.0"
info: {title: t, version: "1"}
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema: {type: string}
    get:
      responses: {"200": {description: ok}}
    delete:
      parameters:
        - name: id
          in: path
          required: true
          schema: {type: integer}
      responses: {"204": {description: deleted}}
`
	doc, err := openapi.Load([]byte(spec))
	require.NoError(t, err)

	get, ok := doc.FindOperation(openapi.MethodGet, "/items/{id}")
	require.True(t, ok)
	require.Len(t, get.Parameters, 1)
	require.NoError(t, get.ValidatePathParameters())

	del, ok := doc.FindOperation(openapi.MethodDelete, "/items/{id}")
	require.True(t, ok)
	require.Len(t, del.Parameters, 1)
	require.Equal(t, "integer", del.Parameters[0].Schema.Type[0])
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	_, err := openapi.Load([]byte(`{"paths": {}}`))
	require.ErrorIs(t, err, openapi.ErrMissingVersion)
}

func TestLoadComponentRefResolves(t *testing.T) {
	const spec = `
openapi: "3.1.0"
info: {title: t, version: "1"}
paths:
  /things:
    get:
      parameters:
        - $ref: "#/components/parameters/Limit"
      responses: {"200": {description: ok}}
components:
  parameters:
    Limit:
      name: limit
      in: query
      schema: {type: integer}
`
	doc, err := openapi.Load([]byte(spec))
	require.NoError(t, err)
	op, ok := doc.FindOperation(openapi.MethodGet, "/things")
	require.True(t, ok)
	require.Len(t, op.Parameters, 1)
	require.Equal(t, "limit", op.Parameters[0].Name)

	resolved, err := doc.Components.ResolveParameter(op.Parameters[0])
	require.NoError(t, err)
	require.Equal(t, "limit", resolved.Name)
}
