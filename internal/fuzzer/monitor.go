package fuzzer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TNO-S3/wuppiefuzz/internal/config"
)

// EventKind names the kind of status line a Monitor renders, mirroring the
// event_msg values CoverageMonitor switches on ("Objective", "Testcase", and
// the generic heartbeat).
type EventKind int

const (
	EventHeartbeat EventKind = iota
	EventObjective
	EventTestcase
)

// Stats is the snapshot of counters a Monitor renders for one event.
type Stats struct {
	Executions    int
	CorpusSize    int
	Objectives    int
	RequestCount  int
	CoverageHit   uint64
	CoverageTotal uint64
	EndpointHit   uint64
	EndpointTotal uint64
}

// Monitor prints a status line per fuzzing event, the Go equivalent of
// CoverageMonitor<F: FnMut(String)>: a print function plus the accumulated
// state needed to format it.
type Monitor struct {
	print     func(string)
	format    config.OutputFormat
	startTime time.Time
}

// NewMonitor builds a Monitor that writes through print, formatted per
// format.
func NewMonitor(print func(string), format config.OutputFormat) *Monitor {
	return &Monitor{print: print, format: format, startTime: time.Now()}
}

// Display renders one event's stats: a crash line for EventObjective, a
// corpus-growth line for EventTestcase (the first of which reports
// "starting corpus loaded" rather than "expanded"), and a dense heartbeat
// line otherwise.
func (m *Monitor) Display(kind EventKind, stats Stats) {
	runTime := time.Since(m.startTime).Round(time.Second)

	if m.format == config.OutputJSON {
		m.print(m.renderJSON(kind, runTime, stats))
		return
	}
	m.print(m.renderText(kind, runTime, stats))
}

func (m *Monitor) renderJSON(kind EventKind, runTime time.Duration, stats Stats) string {
	payload := map[string]any{
		"event_msg":          eventLabel(kind),
		"run_time":           runTime.String(),
		"objectives":         stats.Objectives,
		"executed_sequences": stats.Executions,
		"corpus_size":        stats.CorpusSize,
		"requests":           stats.RequestCount,
		"coverage":           fmt.Sprintf("%d/%d", stats.CoverageHit, stats.CoverageTotal),
		"endpoint_coverage":  fmt.Sprintf("%d/%d", stats.EndpointHit, stats.EndpointTotal),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"event_msg": %q, "error": %q}`, eventLabel(kind), err)
	}
	return string(data)
}

func (m *Monitor) renderText(kind EventKind, runTime time.Duration, stats Stats) string {
	switch kind {
	case EventObjective:
		return fmt.Sprintf(
			"[Objective] New 'crash' observed! After run time: %s, total number of objectives reached: %d",
			runTime, stats.Objectives,
		)
	case EventTestcase:
		if stats.Executions == 0 {
			return fmt.Sprintf("[Testcase] Starting corpus loaded! Initial corpus size: %d", stats.CorpusSize)
		}
		return fmt.Sprintf(
			"[Testcase] The testing corpus expanded! After run time: %s, total corpus size: %d",
			runTime, stats.CorpusSize,
		)
	default:
		return fmt.Sprintf(
			"[Heartbeat] run time: %s, corpus: %d, objectives: %d, executed sequences: %d, requests: %d, coverage: %d/%d, endpoint coverage: %d/%d",
			runTime, stats.CorpusSize, stats.Objectives, stats.Executions, stats.RequestCount,
			stats.CoverageHit, stats.CoverageTotal, stats.EndpointHit, stats.EndpointTotal,
		)
	}
}

func eventLabel(kind EventKind) string {
	switch kind {
	case EventObjective:
		return "Objective"
	case EventTestcase:
		return "Testcase"
	default:
		return "Heartbeat"
	}
}
