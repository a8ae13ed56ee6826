package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

// PartialConfig mirrors Configuration field-for-field but with every field
// optional, so a config file and the CLI can each supply a subset and be
// merged without either source needing every field.
type PartialConfig struct {
	OpenAPISpec  *string `yaml:"openapi_spec"`
	InitialCorpus *string `yaml:"initial_corpus"`
	Target       *string `yaml:"target"`
	CoverageHost *string `yaml:"coverage_host"`

	CoverageFormat *CoverageFormat `yaml:"-"`
	CoverageFormatName *string     `yaml:"coverage_format"`

	TimeoutSeconds *uint64 `yaml:"timeout"`
	RequestTimeoutMillis *uint64 `yaml:"request_timeout"`

	PowerSchedule     *PowerSchedule `yaml:"-"`
	PowerScheduleName *string        `yaml:"power_schedule"`

	CrashCriteriaNames []string `yaml:"crash_criteria"`

	Report *bool `yaml:"report"`

	MethodMutationStrategy     *MethodMutationStrategy `yaml:"-"`
	MethodMutationStrategyName *string                 `yaml:"method_mutation_strategy"`

	JacocoClassDir    *string `yaml:"jacoco_class_dir"`
	SourceDir         *string `yaml:"source_dir"`
	JacocoClassPrefix *string `yaml:"jacoco_class_prefix"`

	OutputFormat     *OutputFormat `yaml:"-"`
	OutputFormatName *string       `yaml:"output_format"`

	Authentication *string `yaml:"authentication"`
	Header         *string `yaml:"header"`

	LogLevel     *zerolog.Level `yaml:"-"`
	LogLevelName *string        `yaml:"log_level"`
}

// LoadYAMLFile reads and decodes a PartialConfig from a YAML config file,
// then resolves its string-named enum fields (coverage_format,
// power_schedule, ...) into their typed counterparts.
func LoadYAMLFile(path string) (*PartialConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	var p PartialConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := p.resolveEnumNames(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &p, nil
}

func (p *PartialConfig) resolveEnumNames() error {
	if p.CoverageFormatName != nil {
		f, ok := ParseCoverageFormat(*p.CoverageFormatName)
		if !ok {
			return fmt.Errorf("unknown coverage_format %q", *p.CoverageFormatName)
		}
		p.CoverageFormat = &f
	}
	if p.PowerScheduleName != nil {
		s, ok := ParsePowerSchedule(*p.PowerScheduleName)
		if !ok {
			return fmt.Errorf("unknown power_schedule %q", *p.PowerScheduleName)
		}
		p.PowerSchedule = &s
	}
	if p.MethodMutationStrategyName != nil {
		s, ok := ParseMethodMutationStrategy(*p.MethodMutationStrategyName)
		if !ok {
			return fmt.Errorf("unknown method_mutation_strategy %q", *p.MethodMutationStrategyName)
		}
		p.MethodMutationStrategy = &s
	}
	if p.OutputFormatName != nil {
		f, ok := ParseOutputFormat(*p.OutputFormatName)
		if !ok {
			return fmt.Errorf("unknown output_format %q", *p.OutputFormatName)
		}
		p.OutputFormat = &f
	}
	if p.LogLevelName != nil {
		lvl, err := zerolog.ParseLevel(*p.LogLevelName)
		if err != nil {
			return fmt.Errorf("unknown log_level %q: %w", *p.LogLevelName, err)
		}
		p.LogLevel = &lvl
	}
	return nil
}

// CrashCriteria parses CrashCriteriaNames, erroring on any unrecognised
// discriminant.
func (p *PartialConfig) CrashCriteria() ([]validate.Kind, error) {
	if p.CrashCriteriaNames == nil {
		return nil, nil
	}
	kinds := make([]validate.Kind, 0, len(p.CrashCriteriaNames))
	for _, name := range p.CrashCriteriaNames {
		k, ok := validate.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("config: unknown crash criterion %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Overwrite merges other into p in place: every field other sets (non-nil)
// wins, every field it leaves nil keeps p's existing value — CLI values
// override config-file values field-by-field, applied by calling
// fileConfig.Overwrite(cliConfig).
func (p *PartialConfig) Overwrite(other *PartialConfig) {
	p.OpenAPISpec = firstNonNil(other.OpenAPISpec, p.OpenAPISpec)
	p.InitialCorpus = firstNonNil(other.InitialCorpus, p.InitialCorpus)
	p.Target = firstNonNil(other.Target, p.Target)
	p.CoverageHost = firstNonNil(other.CoverageHost, p.CoverageHost)
	p.CoverageFormat = firstNonNil(other.CoverageFormat, p.CoverageFormat)
	p.TimeoutSeconds = firstNonNil(other.TimeoutSeconds, p.TimeoutSeconds)
	p.RequestTimeoutMillis = firstNonNil(other.RequestTimeoutMillis, p.RequestTimeoutMillis)
	p.PowerSchedule = firstNonNil(other.PowerSchedule, p.PowerSchedule)
	if other.CrashCriteriaNames != nil {
		p.CrashCriteriaNames = other.CrashCriteriaNames
	}
	p.Report = firstNonNil(other.Report, p.Report)
	p.MethodMutationStrategy = firstNonNil(other.MethodMutationStrategy, p.MethodMutationStrategy)
	p.JacocoClassDir = firstNonNil(other.JacocoClassDir, p.JacocoClassDir)
	p.SourceDir = firstNonNil(other.SourceDir, p.SourceDir)
	p.JacocoClassPrefix = firstNonNil(other.JacocoClassPrefix, p.JacocoClassPrefix)
	p.OutputFormat = firstNonNil(other.OutputFormat, p.OutputFormat)
	p.Authentication = firstNonNil(other.Authentication, p.Authentication)
	p.Header = firstNonNil(other.Header, p.Header)
	p.LogLevel = firstNonNil(other.LogLevel, p.LogLevel)
}

// firstNonNil returns preferred if it is set, else fallback — the
// None-preserving merge rule every *T field in PartialConfig uses.
func firstNonNil[T any](preferred, fallback *T) *T {
	if preferred != nil {
		return preferred
	}
	return fallback
}
