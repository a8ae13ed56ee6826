package coverage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

func documentWithOneResponse() *openapi.Document {
	responses := &openapi.OrderedMap[*openapi.Response]{}
	responses.Set("200", &openapi.Response{})
	responses.Set("404", &openapi.Response{})

	op := &openapi.Operation{Method: openapi.MethodGet, PathTemplate: "/widgets", Responses: responses}
	ops := &openapi.OrderedMap[*openapi.Operation]{}
	ops.Set(string(openapi.MethodGet), op)

	paths := &openapi.OrderedMap[*openapi.PathItem]{}
	paths.Set("/widgets", &openapi.PathItem{PathTemplate: "/widgets", Operations: ops})

	return &openapi.Document{Paths: paths}
}

func TestNewEndpointSeedsDeclaredResponsesAsUnreached(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	hit, total := e.MaxRatio()
	require.Equal(t, uint64(0), hit)
	require.Equal(t, uint64(2), total)
}

func TestObserveMarksDeclaredResponseAsHit(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	e.Observe(openapi.MethodGet, "/widgets", 200)

	hit, total := e.MaxRatio()
	require.Equal(t, uint64(1), hit)
	require.Equal(t, uint64(2), total)
}

func TestObserveRecordsUndeclaredStatusAsUnexpected(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	e.Observe(openapi.MethodGet, "/widgets", 500)

	require.Equal(t, 3, e.Len())
	hit, total := e.MaxRatio()
	require.Equal(t, uint64(1), hit)
	require.Equal(t, uint64(3), total)
}

func TestObserveIsIdempotent(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	e.Observe(openapi.MethodGet, "/widgets", 200)
	e.Observe(openapi.MethodGet, "/widgets", 200)

	require.Equal(t, 2, e.Len())
}

func TestFetchResetClearsBitmapNotHistory(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	e.Observe(openapi.MethodGet, "/widgets", 200)

	require.NoError(t, e.Fetch(true))

	hit, _ := e.MaxRatio()
	require.Equal(t, uint64(1), hit, "MaxRatio tracks the historical maximum, not the live bitmap")
}

func TestWriteReportProducesHTMLFile(t *testing.T) {
	e := coverage.NewEndpoint(documentWithOneResponse())
	e.Observe(openapi.MethodGet, "/widgets", 200)

	dir := t.TempDir()
	require.NoError(t, e.WriteReport(dir))

	data, err := os.ReadFile(filepath.Join(dir, "endpoint_coverage.html"))
	require.NoError(t, err)
	require.Contains(t, string(data), "/widgets")
	require.Contains(t, string(data), "hit")
}
