package config

import "strings"

// CoverageFormat selects which coverage client the fuzzer talks to. A zero
// value (absent from config) means endpoint-only coverage.
type CoverageFormat int

const (
	CoverageEndpoint CoverageFormat = iota
	CoverageJacoco
	CoverageLcov
	CoverageCoverband
)

func (f CoverageFormat) String() string {
	switch f {
	case CoverageJacoco:
		return "jacoco"
	case CoverageLcov:
		return "lcov"
	case CoverageCoverband:
		return "coverband"
	default:
		return "endpoint"
	}
}

// ParseCoverageFormat parses the --coverage-format flag / config value.
func ParseCoverageFormat(s string) (CoverageFormat, bool) {
	switch strings.ToLower(s) {
	case "jacoco":
		return CoverageJacoco, true
	case "lcov":
		return CoverageLcov, true
	case "coverband":
		return CoverageCoverband, true
	default:
		return CoverageEndpoint, false
	}
}

// OutputFormat selects how status/report output is rendered to stdout.
type OutputFormat int

const (
	OutputHumanReadable OutputFormat = iota
	OutputJSON
)

func (f OutputFormat) String() string {
	if f == OutputJSON {
		return "json"
	}
	return "human-readable"
}

// ParseOutputFormat parses the --output-format flag / config value.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "-")) {
	case "json":
		return OutputJSON, true
	case "human-readable", "humanreadable":
		return OutputHumanReadable, true
	default:
		return OutputHumanReadable, false
	}
}

// MethodMutationStrategy controls which HTTP methods DifferentMethod may
// pick from.
type MethodMutationStrategy int

const (
	FollowSpec MethodMutationStrategy = iota
	Common5
	Common7
)

func (s MethodMutationStrategy) String() string {
	switch s {
	case Common5:
		return "common5"
	case Common7:
		return "common7"
	default:
		return "follow-spec"
	}
}

// ParseMethodMutationStrategy parses the --method-mutation-strategy flag /
// config value.
func ParseMethodMutationStrategy(s string) (MethodMutationStrategy, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "-")) {
	case "follow-spec", "followspec":
		return FollowSpec, true
	case "common-5", "common5":
		return Common5, true
	case "common-7", "common7":
		return Common7, true
	default:
		return FollowSpec, false
	}
}

// PowerSchedule names the corpus power-schedule variant internal/fuzzer's
// scheduler uses to weight how often a queue entry is picked.
type PowerSchedule int

const (
	ScheduleFast PowerSchedule = iota
	ScheduleCoe
	ScheduleLin
	ScheduleQuad
	ScheduleExplore
	ScheduleExploit
)

func (s PowerSchedule) String() string {
	switch s {
	case ScheduleCoe:
		return "coe"
	case ScheduleLin:
		return "lin"
	case ScheduleQuad:
		return "quad"
	case ScheduleExplore:
		return "explore"
	case ScheduleExploit:
		return "exploit"
	default:
		return "fast"
	}
}

// ParsePowerSchedule parses the --power-schedule flag / config value.
func ParsePowerSchedule(s string) (PowerSchedule, bool) {
	switch strings.ToLower(s) {
	case "fast":
		return ScheduleFast, true
	case "coe":
		return ScheduleCoe, true
	case "lin":
		return ScheduleLin, true
	case "quad":
		return ScheduleQuad, true
	case "explore":
		return ScheduleExplore, true
	case "exploit":
		return ScheduleExploit, true
	default:
		return ScheduleFast, false
	}
}
