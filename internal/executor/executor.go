package executor

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TNO-S3/wuppiefuzz/internal/auth"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

// EndpointCoverage receives one (method, path, status) observation per
// request the executor completes, the "endpoint coverage" feedback signal
// defines independently of code coverage. internal/coverage's Endpoint
// client implements this; it is expressed as a small consumer-defined
// interface here so this package has no dependency on internal/coverage's
// concrete types.
type EndpointCoverage interface {
	Observe(method openapi.Method, pathTemplate string, status int)
}

// Objective is one crash-criterion violation observed while executing a
// chain: either a validate.Kind the caller has enabled as a crash criterion,
// or an unconditional server error.
type Objective struct {
	RequestIndex int
	Reason       string
	Detail       string
}

// Result summarises one chain execution: how far it got, and any
// objectives it turned up along the way.
type Result struct {
	Completed  int // number of requests actually sent
	Objectives []Objective
	// BrokeAt is the index of the request the chain stopped at before
	// reaching the end — because a reference failed to resolve, the
	// request could not be built, or the transport round-trip failed. -1
	// if every request in the chain ran to completion.
	BrokeAt int
}

// Runner holds everything an Execute call needs that doesn't change between
// chains: the shared HTTP client (and its cookie jar), the authentication
// handle, the loaded spec document to validate responses against, and the
// crash-criteria/coverage/tracing configuration.
type Runner struct {
	Client         *http.Client
	Auth           auth.Authentication
	Document       *openapi.Document
	RequestTimeout time.Duration
	CrashCriteria  map[validate.Kind]bool
	Coverage       EndpointCoverage
	Recorder       *Recorder
	// Reporter persists every request/response pair this Runner sends, for
	// later inspection in a Grafana dashboard. Defaults to a no-op when unset,
	// so Runner works without a reporting backend configured.
	Reporter reporting.Reporter
}

func (r *Runner) reporter() reporting.Reporter {
	if r.Reporter == nil {
		return reporting.NoopReporter{}
	}
	return r.Reporter
}

// NewCrashCriteria turns a crash-criteria list (as resolved from config)
// into the lookup table Runner.Execute checks each violation against.
func NewCrashCriteria(kinds []validate.Kind) map[validate.Kind]bool {
	m := make(map[validate.Kind]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// Execute runs chain against baseURL in order, resolving each request's
// back-references against store as it goes and feeding every successful
// response's body and cookies back into store for later requests to
// reference. It never retries a request, and it never returns an error for
// anything the chain itself produced — a broken reference, a build failure
// or a transport error simply stops the chain early, recorded as
// Result.BrokeAt, since those are properties of the input being fuzzed
// rather than of the fuzzer's own operation. Every request sent and
// response (or transport error) received is handed to Reporter, win or
// lose, so a configured reporting backend sees the whole chain even when it
// breaks partway through.
func (r *Runner) Execute(ctx context.Context, baseURL string, chain *input.Chain, store *paramfeedback.Store) (*Result, error) {
	result := &Result{BrokeAt: -1}

	for i, req := range chain.Requests {
		if ctx.Err() != nil {
			result.BrokeAt = i
			return result, nil
		}

		resolved, err := ResolveRequest(req, store)
		if err != nil {
			result.BrokeAt = i
			return result, nil
		}

		if err := r.Auth.Refresh(r.Client); err != nil {
			result.BrokeAt = i
			return result, fmt.Errorf("executor: refreshing authentication: %w", err)
		}

		reqCtx := ctx
		var cancel context.CancelFunc
		if r.RequestTimeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, r.RequestTimeout)
		}

		httpReq, err := buildHTTPRequest(reqCtx, baseURL, resolved, r.Client.Jar, r.Auth)
		if err != nil {
			if cancel != nil {
				cancel()
			}
			result.BrokeAt = i
			return result, nil
		}

		reqBody, _, _ := encodeBody(resolved)
		reportID, reportErr := r.reporter().ReportRequest(reporting.RequestRecord{
			Method:  string(resolved.Method),
			Path:    resolved.PathTemplate,
			URL:     httpReq.URL.String(),
			Body:    string(reqBody),
			Curl:    curlString(httpReq, reqBody),
			InputID: i,
		})
		if reportErr != nil {
			reportID = 0
		}

		resp, err := r.Client.Do(httpReq)
		if err != nil {
			if cancel != nil {
				cancel()
			}
			r.reporter().ReportResponseError(reportID, err.Error())
			result.BrokeAt = i
			return result, nil
		}

		bodyBytes, readErr := readAllTraced(resp.Body, r.Recorder.trace(i, "response"))
		resp.Body.Close()
		if cancel != nil {
			cancel()
		}
		if readErr != nil {
			r.reporter().ReportResponseError(reportID, readErr.Error())
			result.BrokeAt = i
			return result, nil
		}

		r.reporter().ReportResponse(reportID, resp.StatusCode, string(bodyBytes))

		result.Objectives = append(result.Objectives, r.checkResponse(i, resolved, resp, bodyBytes)...)

		if resp.StatusCode < 300 {
			r.processResponse(i, resp, bodyBytes, store)
		}

		if r.Coverage != nil {
			r.Coverage.Observe(resolved.Method, resolved.PathTemplate, resp.StatusCode)
		}

		result.Completed++
	}

	return result, nil
}

// checkResponse validates resp against the spec and turns every violation
// that is configured as a crash criterion, plus any 5xx status regardless of
// configuration, into an Objective.
func (r *Runner) checkResponse(requestIndex int, req *input.Request, resp *http.Response, body []byte) []Objective {
	var objectives []Objective

	op, opErr := validate.CheckOperation(r.Document, req.Method, req.PathTemplate)
	if opErr != nil {
		if r.CrashCriteria[opErr.Kind] {
			objectives = append(objectives, Objective{RequestIndex: requestIndex, Reason: opErr.Kind.String(), Detail: opErr.Error()})
		}
	} else {
		status := strconv.Itoa(resp.StatusCode)
		declared, statusErr := validate.CheckStatus(op, status)
		if statusErr != nil {
			if r.CrashCriteria[statusErr.Kind] {
				objectives = append(objectives, Objective{RequestIndex: requestIndex, Reason: statusErr.Kind.String(), Detail: statusErr.Error()})
			}
		} else if bodyErr := validate.CheckBody(r.Document.Components, declared, resp.Header.Get("Content-Type"), body); bodyErr != nil {
			if r.CrashCriteria[bodyErr.Kind] {
				objectives = append(objectives, Objective{RequestIndex: requestIndex, Reason: bodyErr.Kind.String(), Detail: bodyErr.Error()})
			}
		}
	}

	if resp.StatusCode >= 500 {
		objectives = append(objectives, Objective{
			RequestIndex: requestIndex,
			Reason:       "ServerError",
			Detail:       fmt.Sprintf("%s %s returned %d", req.Method, req.PathTemplate, resp.StatusCode),
		})
	}

	return objectives
}

// processResponse records a successful response's body and cookies into
// store, so later requests in the chain can reference them.
func (r *Runner) processResponse(requestIndex int, resp *http.Response, body []byte, store *paramfeedback.Store) {
	if isJSONContentType(resp.Header.Get("Content-Type")) && len(body) > 0 {
		if v, err := paramfeedback.DecodeJSON(body); err == nil {
			store.RecordBody(requestIndex, v)
		}
	}

	cookies := make(map[string]string)
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c.Value
	}
	if len(cookies) > 0 {
		store.RecordCookies(requestIndex, cookies)
	}
}

func isJSONContentType(contentType string) bool {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return base == "application/json" || strings.HasSuffix(base, "+json")
}
