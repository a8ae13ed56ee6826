package fuzzer

import (
	"math"
	"math/rand"
	"time"

	"github.com/TNO-S3/wuppiefuzz/internal/config"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// QueueEntry is a corpus entry: a chain plus the scheduler metadata calls
// out ("power-schedule counters, execution time, disabled flag").
type QueueEntry struct {
	Chain *input.Chain

	Executions int
	TotalTime  time.Duration
	Disabled   bool
	Favored    bool // set by Minimize; exploit schedules weight these higher

	Energy float64
}

// Scheduler picks the next corpus entry to fuzz, weighted by its current
// Energy.
type Scheduler interface {
	Add(entry *QueueEntry)
	Entries() []*QueueEntry
	Next(rng *rand.Rand) (*QueueEntry, bool)
}

// PowerScheduler assigns every entry an Energy score derived from
// config.PowerSchedule and picks among enabled entries with probability
// proportional to that score — a simplified, from-scratch re-expression of
// AFL-style power scheduling. No equivalent scheduling library exists in
// the Go ecosystem, so this stays hand-rolled.
type PowerScheduler struct {
	schedule config.PowerSchedule
	entries  []*QueueEntry
}

// NewPowerScheduler builds a scheduler using the given base power schedule.
func NewPowerScheduler(schedule config.PowerSchedule) *PowerScheduler {
	return &PowerScheduler{schedule: schedule}
}

// Add appends entry to the scheduler's queue.
func (s *PowerScheduler) Add(entry *QueueEntry) {
	s.entries = append(s.entries, entry)
}

// Entries returns every entry currently known to the scheduler, in
// insertion order.
func (s *PowerScheduler) Entries() []*QueueEntry {
	return s.entries
}

// Next recomputes every enabled entry's energy and picks one at random,
// weighted by that energy. It returns false if every entry is disabled.
func (s *PowerScheduler) Next(rng *rand.Rand) (*QueueEntry, bool) {
	avg := s.averageExecTime()

	var total float64
	for _, e := range s.entries {
		if e.Disabled {
			continue
		}
		e.Energy = energyFor(s.schedule, e, avg)
		total += e.Energy
	}
	if total <= 0 {
		return nil, false
	}

	pick := rng.Float64() * total
	var acc float64
	for _, e := range s.entries {
		if e.Disabled {
			continue
		}
		acc += e.Energy
		if pick <= acc {
			return e, true
		}
	}
	// Floating-point rounding can leave pick just past the last entry.
	for _, e := range s.entries {
		if !e.Disabled {
			return e, true
		}
	}
	return nil, false
}

func (s *PowerScheduler) averageExecTime() time.Duration {
	var total time.Duration
	var count int
	for _, e := range s.entries {
		if e.Executions > 0 {
			total += e.TotalTime
			count += e.Executions
		}
	}
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

// energyFor computes one entry's power-schedule score. Every schedule
// starts from the same "less-explored entries get more energy" baseline
// (1 / sqrt(executions+1)) and layers the schedule's own bias on top:
// fast/coe reward faster-than-average entries, lin/quad scale the baseline
// linearly/quadratically with executions instead of by square root,
// explore flattens energy to ignore exec count entirely, and exploit
// multiplies favored (minimiser-selected) entries instead.
func energyFor(schedule config.PowerSchedule, e *QueueEntry, avgExecTime time.Duration) float64 {
	baseline := 1 / math.Sqrt(float64(e.Executions)+1)

	switch schedule {
	case config.ScheduleExplore:
		return 1
	case config.ScheduleExploit:
		if e.Favored {
			return baseline * 10
		}
		return baseline
	case config.ScheduleLin:
		return 1 / (float64(e.Executions) + 1)
	case config.ScheduleQuad:
		n := float64(e.Executions) + 1
		return 1 / (n * n)
	case config.ScheduleCoe:
		return baseline * speedFactor(e, avgExecTime)
	default: // config.ScheduleFast
		return baseline * speedFactor(e, avgExecTime)
	}
}

// speedFactor rewards an entry whose average exec time is below the
// corpus-wide average, matching AFL's "favor faster inputs" intuition.
func speedFactor(e *QueueEntry, avgExecTime time.Duration) float64 {
	if e.Executions == 0 || avgExecTime == 0 {
		return 1
	}
	entryAvg := e.TotalTime / time.Duration(e.Executions)
	if entryAvg <= 0 {
		return 2
	}
	ratio := float64(avgExecTime) / float64(entryAvg)
	switch {
	case ratio > 2:
		return 2
	case ratio < 0.5:
		return 0.5
	default:
		return ratio
	}
}
