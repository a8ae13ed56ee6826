package reporting_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
)

func TestGenerateReportPathCreatesDirectoryUnderReports(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	path, err := reporting.GenerateReportPath()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "reports"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
