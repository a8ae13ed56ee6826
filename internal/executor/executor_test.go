package executor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/auth"
	"github.com/TNO-S3/wuppiefuzz/internal/httpclient"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

func emptyComponents() *openapi.Components {
	return &openapi.Components{
		Schemas:       &openapi.OrderedMap[*openapi.Schema]{},
		Parameters:    &openapi.OrderedMap[*openapi.Parameter]{},
		RequestBodies: &openapi.OrderedMap[*openapi.RequestBody]{},
		Responses:     &openapi.OrderedMap[*openapi.Response]{},
	}
}

func documentWithWidgets() *openapi.Document {
	okResponses := &openapi.OrderedMap[*openapi.Response]{}
	content := &openapi.OrderedMap[*openapi.MediaType]{}
	content.Set("application/json", &openapi.MediaType{Schema: &openapi.Schema{Type: []string{"object"}}})
	okResponses.Set("200", &openapi.Response{Content: content})
	okResponses.Set("201", &openapi.Response{Content: content})

	postOp := &openapi.Operation{Method: openapi.MethodPost, PathTemplate: "/widgets", Responses: okResponses}
	getOp := &openapi.Operation{Method: openapi.MethodGet, PathTemplate: "/widgets/{id}", Responses: okResponses}

	widgetsOps := &openapi.OrderedMap[*openapi.Operation]{}
	widgetsOps.Set(string(openapi.MethodPost), postOp)
	widgetOps := &openapi.OrderedMap[*openapi.Operation]{}
	widgetOps.Set(string(openapi.MethodGet), getOp)

	paths := &openapi.OrderedMap[*openapi.PathItem]{}
	paths.Set("/widgets", &openapi.PathItem{PathTemplate: "/widgets", Operations: widgetsOps})
	paths.Set("/widgets/{id}", &openapi.PathItem{PathTemplate: "/widgets/{id}", Operations: widgetOps})

	return &openapi.Document{Components: emptyComponents(), Paths: paths}
}

func newRunner(t *testing.T, doc *openapi.Document, coverage EndpointCoverage) *Runner {
	t.Helper()
	client, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)
	return &Runner{
		Client:        client,
		Auth:          auth.None{},
		Document:      doc,
		CrashCriteria: NewCrashCriteria(validate.AllKinds),
		Coverage:      coverage,
	}
}

type recordingCoverage struct {
	observed []string
}

func (c *recordingCoverage) Observe(method openapi.Method, pathTemplate string, status int) {
	c.observed = append(c.observed, fmt.Sprintf("%s %s %d", method, pathTemplate, status))
}

func TestExecuteCarriesResponseBodyIntoNextRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodPost && req.URL.Path == "/widgets":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 5}`))
		case req.Method == http.MethodGet && req.URL.Path == "/widgets/5":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id": 5, "name": "drill"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	coverage := &recordingCoverage{}
	runner := newRunner(t, documentWithWidgets(), coverage)

	create := input.NewRequest(openapi.MethodPost, "/widgets")
	create.Body = input.BodyApplicationJSON
	create.BodyValue = input.NewObject()

	get := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	get.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	chain := input.NewChain(create, get)
	store := paramfeedback.New(chain.Len())

	result, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)
	require.Equal(t, -1, result.BrokeAt)
	require.Equal(t, 2, result.Completed)
	require.Empty(t, result.Objectives)
	require.Len(t, coverage.observed, 2)
}

func TestExecuteBreaksChainOnUnresolvedReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	runner := newRunner(t, documentWithWidgets(), nil)

	get := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	get.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	chain := input.NewChain(get)
	store := paramfeedback.New(chain.Len())

	result, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)
	require.Equal(t, 0, result.BrokeAt)
	require.Equal(t, 0, result.Completed)
}

func TestExecuteFlagsServerErrorAsObjective(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	runner := newRunner(t, documentWithWidgets(), nil)

	req := input.NewRequest(openapi.MethodPost, "/widgets")
	req.Body = input.BodyApplicationJSON
	req.BodyValue = input.NewObject()

	chain := input.NewChain(req)
	store := paramfeedback.New(chain.Len())

	result, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)
	require.Equal(t, 1, result.Completed)
	require.NotEmpty(t, result.Objectives)
	require.Equal(t, "ServerError", result.Objectives[len(result.Objectives)-1].Reason)
}

func TestExecuteFlagsUndeclaredOperationWhenConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	runner := newRunner(t, documentWithWidgets(), nil)

	req := input.NewRequest(openapi.MethodDelete, "/not-in-spec")
	chain := input.NewChain(req)
	store := paramfeedback.New(chain.Len())

	result, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)
	require.Equal(t, 1, result.Completed)
	require.Len(t, result.Objectives, 1)
	require.Equal(t, validate.OperationNotInSpec.String(), result.Objectives[0].Reason)
}

func TestExecuteSharesCookieJarAcrossRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/widgets":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 1}`))
		case "/widgets/1":
			cookie, err := req.Cookie("session")
			if err != nil || cookie.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id": 1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client, err := httpclient.New(httpclient.Options{Jar: jar})
	require.NoError(t, err)

	runner := &Runner{
		Client:        client,
		Auth:          auth.None{},
		Document:      documentWithWidgets(),
		CrashCriteria: NewCrashCriteria(validate.AllKinds),
	}

	create := input.NewRequest(openapi.MethodPost, "/widgets")
	create.Body = input.BodyApplicationJSON
	create.BodyValue = input.NewObject()

	get := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	get.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	chain := input.NewChain(create, get)
	store := paramfeedback.New(chain.Len())

	result, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)
	require.Equal(t, 2, result.Completed)
	require.Empty(t, result.Objectives)
}

type recordingReporter struct {
	requests  []reporting.RequestRecord
	responses map[reporting.RequestID]int
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{responses: make(map[reporting.RequestID]int)}
}

func (r *recordingReporter) ReportRequest(req reporting.RequestRecord) (reporting.RequestID, error) {
	r.requests = append(r.requests, req)
	return reporting.RequestID(len(r.requests)), nil
}

func (r *recordingReporter) ReportResponse(id reporting.RequestID, status int, body string) error {
	r.responses[id] = status
	return nil
}

func (r *recordingReporter) ReportResponseError(id reporting.RequestID, errText string) error {
	return nil
}

func (r *recordingReporter) ReportCoverage(lineHit, lineTotal, endpointHit, endpointTotal uint64) error {
	return nil
}

func (r *recordingReporter) Close() error { return nil }

func TestExecuteReportsEveryRequestAndResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 5}`))
	}))
	defer server.Close()

	reporter := newRecordingReporter()
	runner := newRunner(t, documentWithWidgets(), nil)
	runner.Reporter = reporter

	create := input.NewRequest(openapi.MethodPost, "/widgets")
	create.Body = input.BodyApplicationJSON
	create.BodyValue = input.NewObject()

	chain := input.NewChain(create)
	store := paramfeedback.New(chain.Len())

	_, err := runner.Execute(context.Background(), server.URL, chain, store)
	require.NoError(t, err)

	require.Len(t, reporter.requests, 1)
	require.Equal(t, "POST", reporter.requests[0].Method)
	require.Equal(t, "/widgets", reporter.requests[0].Path)
	require.Len(t, reporter.responses, 1)
	for _, status := range reporter.responses {
		require.Equal(t, http.StatusCreated, status)
	}
}
