package pipeline

import (
	"time"

	"github.com/tracertea/commentflow/internal/youtube"
)

// batchState holds everything a run accumulates. It is owned exclusively by
// the Runner goroutine; consumers only ever see copies handed out in Results.
type batchState struct {
	processed []youtube.CommentRecord

	// oldestIdx indexes into processed; -1 until a record with a parseable
	// timestamp has been seen. Once set it only moves to a strictly earlier
	// timestamp.
	oldestIdx  int
	oldestTime time.Time
}

func newBatchState() *batchState {
	return &batchState{oldestIdx: -1}
}

// add appends a resolved record and updates the oldest tracking when the
// row's timestamp parses and predates the current oldest.
func (s *batchState) add(rec youtube.CommentRecord) (timestampOK bool) {
	s.processed = append(s.processed, rec)

	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		return false
	}
	if s.oldestIdx < 0 || ts.Before(s.oldestTime) {
		s.oldestIdx = len(s.processed) - 1
		s.oldestTime = ts
	}
	return true
}

// oldest returns a copy of the oldest-seen record, or nil when no record had
// a parseable timestamp.
func (s *batchState) oldest() *youtube.CommentRecord {
	if s.oldestIdx < 0 {
		return nil
	}
	rec := s.processed[s.oldestIdx]
	return &rec
}

// timestampLayouts are tried in order. Input timestamps are expected to be
// ISO-8601-like but are tolerated as opaque when nothing matches.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
