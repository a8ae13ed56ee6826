package coverage

import (
	"fmt"
	"net/http"

	"github.com/TNO-S3/wuppiefuzz/internal/config"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/coverband"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/jacoco"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/lcov"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// New builds the Client cfg.Coverage.Format selects, mirroring
// CoverageConfiguration-to-CoverageClient dispatch. doc is only consulted
// for the always-on CoverageEndpoint client; dumpDir, when non-empty, is
// where the Jacoco/LCOV clients accumulate per-fetch dump files for later
// WriteReport calls.
func New(cfg *config.Config, doc *openapi.Document, httpClient *http.Client, dumpDir string) (Client, error) {
	switch cfg.Coverage.Format {
	case config.CoverageJacoco:
		return jacoco.New(jacoco.Options{
			Address:     cfg.CoverageHost,
			ClassPrefix: cfg.Coverage.JacocoClassPrefix,
			DumpDir:     dumpDir,
			SourceDir:   cfg.Coverage.SourceDir,
			ClassDir:    cfg.Coverage.JacocoClassDir,
		})
	case config.CoverageLcov:
		return lcov.New(lcov.Options{
			Address:   cfg.CoverageHost,
			DumpDir:   dumpDir,
			SourceDir: cfg.Coverage.SourceDir,
		})
	case config.CoverageCoverband:
		return coverband.New(httpClient, coverband.Options{URL: cfg.CoverageHost}), nil
	case config.CoverageEndpoint:
		return NewEndpoint(doc), nil
	default:
		return nil, fmt.Errorf("coverage: unknown coverage format %v", cfg.Coverage.Format)
	}
}
