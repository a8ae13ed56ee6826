package reporting

// Reporter records a fuzzing run's requests, responses and coverage samples
// for later analysis. RequestID identifies a previously reported request so
// a later response can be linked back to it.
type Reporter interface {
	// ReportRequest records one outgoing request and returns an ID later
	// calls use to link its response (or response error) back to it.
	ReportRequest(req RequestRecord) (RequestID, error)
	// ReportResponse links a successful response to a previously reported
	// request.
	ReportResponse(requestID RequestID, status int, body string) error
	// ReportResponseError links a transport-level failure (no response
	// received at all) to a previously reported request.
	ReportResponseError(requestID RequestID, errText string) error
	// ReportCoverage records one coverage snapshot for the run as a whole,
	// not tied to any individual request.
	ReportCoverage(lineHit, lineTotal, endpointHit, endpointTotal uint64) error
	// Close releases the underlying storage handle.
	Close() error
}

// RequestID identifies a reported request within a Reporter's backing
// store.
type RequestID int64

// RequestRecord is everything Reporter.ReportRequest needs to persist about
// one outgoing request.
type RequestRecord struct {
	Method   string
	Path     string
	URL      string
	Body     string
	Curl     string
	Testcase string // the queue file this request's chain was loaded from, if any
	InputID  int
}

// NoopReporter implements Reporter by discarding everything, used when no
// reporting backend is configured (config.Report == false).
type NoopReporter struct{}

func (NoopReporter) ReportRequest(RequestRecord) (RequestID, error)      { return 0, nil }
func (NoopReporter) ReportResponse(RequestID, int, string) error         { return nil }
func (NoopReporter) ReportResponseError(RequestID, string) error         { return nil }
func (NoopReporter) ReportCoverage(uint64, uint64, uint64, uint64) error { return nil }
func (NoopReporter) Close() error                                       { return nil }
