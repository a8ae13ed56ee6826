package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

const (
	defaultRequestTimeout         = 30000 * time.Millisecond
	defaultMethodMutationStrategy = FollowSpec
	defaultLogLevel               = zerolog.InfoLevel
	defaultPowerSchedule          = ScheduleFast
)

// CoverageConfig holds the coverage-client-specific fields Configuration.get
// resolves out of the flat PartialConfig.
type CoverageConfig struct {
	Format CoverageFormat

	// SourceDir is required to generate a report for Jacoco/LCOV/Coverband.
	SourceDir string
	// JacocoClassDir is required to generate a Jacoco report.
	// JacocoClassPrefix is optional; "" counts every class.
	JacocoClassDir    string
	JacocoClassPrefix string
}

// TypeString names the coverage client the way type_str does, for
// status/report headers.
func (c CoverageConfig) TypeString() string {
	switch c.Format {
	case CoverageJacoco:
		return "JaCoCo"
	case CoverageLcov:
		return "LCOV"
	case CoverageCoverband:
		return "Coverband"
	default:
		return "endpoint-only"
	}
}

// Config is the fully resolved configuration a fuzz/verify-auth/reproduce
// run executes with: every optional field from PartialConfig has either
// been required and validated, or defaulted.
type Config struct {
	OpenAPISpec   string
	InitialCorpus string
	Target        string
	CoverageHost  string

	Coverage CoverageConfig

	Timeout        time.Duration // zero means "run until stopped"
	RequestTimeout time.Duration

	PowerSchedule PowerSchedule
	CrashCriteria []validate.Kind

	Report bool

	MethodMutationStrategy MethodMutationStrategy
	OutputFormat           OutputFormat

	Authentication string
	Header         string

	LogLevel zerolog.Level
}

// Resolve validates p and fills in defaults, producing the Config the rest
// of the program runs with. Mirrors TryFrom<PartialConfiguration> for
// Configuration, including its two report-precondition checks.
func Resolve(p *PartialConfig) (*Config, error) {
	report := derefOr(p.Report, false)

	coverageFormat := CoverageEndpoint
	if p.CoverageFormat != nil {
		coverageFormat = *p.CoverageFormat
	}

	if report {
		if coverageFormat == CoverageJacoco && p.JacocoClassDir == nil {
			return nil, fmt.Errorf("config: a coverage report is requested for Jacoco coverage, but jacoco_class_dir is not set")
		}
		if p.CoverageFormat != nil && p.SourceDir == nil {
			return nil, fmt.Errorf("config: a coverage report is requested, but source_dir is not set")
		}
	}

	if p.OpenAPISpec == nil {
		return nil, fmt.Errorf("config: no OpenAPI specification file given")
	}

	crashCriteria, err := p.CrashCriteria()
	if err != nil {
		return nil, err
	}
	if crashCriteria == nil {
		crashCriteria = append([]validate.Kind(nil), validate.AllKinds...)
	}

	requestTimeout := defaultRequestTimeout
	if p.RequestTimeoutMillis != nil {
		requestTimeout = time.Duration(*p.RequestTimeoutMillis) * time.Millisecond
	}

	var timeout time.Duration
	if p.TimeoutSeconds != nil {
		timeout = time.Duration(*p.TimeoutSeconds) * time.Second
	}

	powerSchedule := defaultPowerSchedule
	if p.PowerSchedule != nil {
		powerSchedule = *p.PowerSchedule
	}

	methodMutationStrategy := defaultMethodMutationStrategy
	if p.MethodMutationStrategy != nil {
		methodMutationStrategy = *p.MethodMutationStrategy
	}

	outputFormat := OutputHumanReadable
	if p.OutputFormat != nil {
		outputFormat = *p.OutputFormat
	}

	logLevel := defaultLogLevel
	if p.LogLevel != nil {
		logLevel = *p.LogLevel
	}

	return &Config{
		OpenAPISpec:   *p.OpenAPISpec,
		InitialCorpus: derefOr(p.InitialCorpus, ""),
		Target:        derefOr(p.Target, ""),
		CoverageHost:  derefOr(p.CoverageHost, ""),
		Coverage: CoverageConfig{
			Format:            coverageFormat,
			SourceDir:         derefOr(p.SourceDir, ""),
			JacocoClassDir:    derefOr(p.JacocoClassDir, ""),
			JacocoClassPrefix: derefOr(p.JacocoClassPrefix, ""),
		},
		Timeout:                timeout,
		RequestTimeout:         requestTimeout,
		PowerSchedule:          powerSchedule,
		CrashCriteria:          crashCriteria,
		Report:                 report,
		MethodMutationStrategy: methodMutationStrategy,
		OutputFormat:           outputFormat,
		Authentication:         derefOr(p.Authentication, ""),
		Header:                 derefOr(p.Header, ""),
		LogLevel:               logLevel,
	}, nil
}

func derefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
