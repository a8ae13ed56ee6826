package reporting

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDatabasePath is where a SQLite reporter writes its database when
// no path is configured explicitly.
const DefaultDatabasePath = "reports/grafana/report.db"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	testcase TEXT,
	path TEXT NOT NULL,
	type TEXT NOT NULL,
	data TEXT,
	url TEXT,
	body TEXT,
	inputid INTEGER NOT NULL,
	runid INTEGER NOT NULL,
	FOREIGN KEY (runid) REFERENCES runs(id)
);
CREATE TABLE IF NOT EXISTS responses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	status INTEGER,
	error TEXT,
	data TEXT,
	reqid INTEGER NOT NULL,
	FOREIGN KEY (reqid) REFERENCES requests(id)
);
CREATE TABLE IF NOT EXISTS coverage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	line_coverage INTEGER,
	line_coverage_total INTEGER,
	endpoint_coverage INTEGER,
	endpoint_coverage_total INTEGER,
	runid INTEGER NOT NULL,
	FOREIGN KEY (runid) REFERENCES runs(id)
);
`

// SQLiteReporter persists run data to a SQLite database via database/sql
// and the mattn/go-sqlite3 driver.
type SQLiteReporter struct {
	db    *sql.DB
	runID int64
}

// NewSQLiteReporter opens (creating if necessary) the database at path,
// ensures its schema exists, and records a new run row.
func NewSQLiteReporter(path string) (*SQLiteReporter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("reporting: creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("reporting: opening %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("reporting: creating schema: %w", err)
	}

	result, err := db.Exec("INSERT INTO runs (timestamp) VALUES (?)", rfc3339Millis(time.Now()))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reporting: creating run row: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reporting: reading run id: %w", err)
	}

	return &SQLiteReporter{db: db, runID: runID}, nil
}

// ReportRequest implements Reporter.
func (r *SQLiteReporter) ReportRequest(req RequestRecord) (RequestID, error) {
	result, err := r.db.Exec(
		`INSERT INTO requests (timestamp, testcase, path, type, data, url, body, inputid, runid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rfc3339Millis(time.Now()), nullableString(req.Testcase), req.Path, req.Method,
		req.Curl, req.URL, req.Body, req.InputID, r.runID,
	)
	if err != nil {
		return 0, fmt.Errorf("reporting: inserting request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reporting: reading request id: %w", err)
	}
	return RequestID(id), nil
}

// ReportResponse implements Reporter.
func (r *SQLiteReporter) ReportResponse(requestID RequestID, status int, body string) error {
	_, err := r.db.Exec(
		"INSERT INTO responses (timestamp, status, reqid, data) VALUES (?, ?, ?, ?)",
		rfc3339Millis(time.Now()), status, int64(requestID), body,
	)
	if err != nil {
		return fmt.Errorf("reporting: inserting response: %w", err)
	}
	return nil
}

// ReportResponseError implements Reporter.
func (r *SQLiteReporter) ReportResponseError(requestID RequestID, errText string) error {
	_, err := r.db.Exec(
		"INSERT INTO responses (timestamp, error, reqid) VALUES (?, ?, ?)",
		rfc3339Millis(time.Now()), errText, int64(requestID),
	)
	if err != nil {
		return fmt.Errorf("reporting: inserting response error: %w", err)
	}
	return nil
}

// ReportCoverage implements Reporter.
func (r *SQLiteReporter) ReportCoverage(lineHit, lineTotal, endpointHit, endpointTotal uint64) error {
	_, err := r.db.Exec(
		`INSERT INTO coverage (line_coverage, line_coverage_total, endpoint_coverage, endpoint_coverage_total, runid)
		 VALUES (?, ?, ?, ?, ?)`,
		lineHit, lineTotal, endpointHit, endpointTotal, r.runID,
	)
	if err != nil {
		return fmt.Errorf("reporting: inserting coverage: %w", err)
	}
	return nil
}

// Close implements Reporter.
func (r *SQLiteReporter) Close() error { return r.db.Close() }

func rfc3339Millis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
