package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// GenerateReportPath creates and returns this run's report directory,
// typically "reports/2023-06-13T105302.602Z" — an ISO 8601 timestamp under
// the fixed "reports" root, matching generate_report_path.
func GenerateReportPath() (string, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T150405.000Z")
	path := filepath.Join("reports", timestamp)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("reporting: creating report directory %s: %w", path, err)
	}
	return path, nil
}
