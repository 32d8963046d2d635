package pipeline

import (
	"fmt"
	"time"
)

// ProgressSnapshot describes how far a pass has advanced. Snapshots are
// recomputed after every item, never stored.
type ProgressSnapshot struct {
	Done    int
	Total   int
	Elapsed time.Duration
	ETA     time.Duration
	HasETA  bool
}

// Percent returns completion as a 0-100 percentage.
func (p ProgressSnapshot) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// FormatETA renders the ETA as MM:SS, or "--:--" before the first item has
// completed.
func (p ProgressSnapshot) FormatETA() string {
	if !p.HasETA {
		return "--:--"
	}
	seconds := int(p.ETA.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// String renders the canonical one-line progress report.
func (p ProgressSnapshot) String() string {
	return fmt.Sprintf("Progress: %.1f%% (%d/%d) | ETA: %s", p.Percent(), p.Done, p.Total, p.FormatETA())
}

// snapshot derives the current progress, estimating time remaining from the
// average per-item duration so far.
func snapshot(done, total int, elapsed time.Duration) ProgressSnapshot {
	s := ProgressSnapshot{
		Done:    done,
		Total:   total,
		Elapsed: elapsed,
	}
	if done > 0 {
		avg := elapsed / time.Duration(done)
		s.ETA = avg * time.Duration(total-done)
		s.HasETA = true
	}
	return s
}
