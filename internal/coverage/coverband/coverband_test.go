package coverband_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage/coverband"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestFetchRecordsHitLinesOnly(t *testing.T) {
	srv := jsonServer(t, `[{"filename":"app.rb","coverage":[1,0,null,3],"never_loaded":false}]`)
	defer srv.Close()

	client := coverband.New(srv.Client(), coverband.Options{URL: srv.URL})
	require.NoError(t, client.Fetch(true))

	hit, total := client.MaxRatio()
	require.Equal(t, uint64(2), hit, "lines 0 and 3 have nonzero hit counts, line 1 does not")
	require.Equal(t, uint64(3), total, "three lines are executable (non-null)")
}

func TestFetchSkipsNeverLoadedFiles(t *testing.T) {
	srv := jsonServer(t, `[{"filename":"app.rb","coverage":[1],"never_loaded":true}]`)
	defer srv.Close()

	client := coverband.New(srv.Client(), coverband.Options{URL: srv.URL})
	require.NoError(t, client.Fetch(true))

	require.Equal(t, 0, client.Len())
}

func TestFetchOnlyCountsIncreasedHitsAgainstBaseline(t *testing.T) {
	srv := jsonServer(t, `[{"filename":"app.rb","coverage":[1,1],"never_loaded":false}]`)
	defer srv.Close()

	client := coverband.New(srv.Client(), coverband.Options{URL: srv.URL})
	require.NoError(t, client.Fetch(true))
	hit, _ := client.MaxRatio()
	require.Equal(t, uint64(2), hit)

	// A second poll with identical counts should not change the bitmap.
	require.NoError(t, client.Fetch(true))
	hit, _ = client.MaxRatio()
	require.Equal(t, uint64(2), hit)
}

func TestFetchFailsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := coverband.New(srv.Client(), coverband.Options{URL: srv.URL})
	require.Error(t, client.Fetch(true))
}

func TestWriteReportIsUnsupported(t *testing.T) {
	client := coverband.New(http.DefaultClient, coverband.Options{URL: "http://example.invalid"})
	require.Error(t, client.WriteReport(t.TempDir()))
}
