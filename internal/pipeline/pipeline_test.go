package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/tracertea/commentflow/internal/input"
	"github.com/tracertea/commentflow/internal/youtube"
)

type stubResolver struct {
	records map[string]*youtube.CommentRecord
	calls   []string
}

func (s *stubResolver) Resolve(_ context.Context, commentID string) (*youtube.CommentRecord, error) {
	s.calls = append(s.calls, commentID)
	rec, ok := s.records[commentID]
	if !ok {
		return nil, errors.New("resolve failed")
	}
	cp := *rec
	return &cp, nil
}

func newTestRunner(resolver Resolver) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(resolver, nil, logger)
}

func row(fields ...string) input.RawRow {
	return input.RawRow{Fields: fields}
}

const threadID = "AAAAAAAAAAAAAAAAAAAA"

func TestRun_EndToEnd(t *testing.T) {
	resolver := &stubResolver{
		records: map[string]*youtube.CommentRecord{
			threadID: {
				CommentID:  threadID,
				Text:       "top comment",
				VideoTitle: "Video One",
				LikeCount:  50,
				ReplyCount: 2,
			},
		},
	}
	runner := newTestRunner(resolver)

	rows := []input.RawRow{
		row("https://www.youtube.com/watch?v=v1&lc="+threadID, "2023-05-01T00:00:00"),
		row("bad", "2023-01-01T00:00:00"),
	}

	result, err := runner.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Processed) != 1 {
		t.Fatalf("processed = %d, want 1", len(result.Processed))
	}
	if result.Processed[0].LikeCount != 50 {
		t.Errorf("like count = %d, want 50", result.Processed[0].LikeCount)
	}
	if result.Processed[0].Timestamp != "2023-05-01T00:00:00" {
		t.Errorf("timestamp = %q, want verbatim row timestamp", result.Processed[0].Timestamp)
	}
	if len(result.Failed) != 1 || result.Failed[0].Reference() != "bad" {
		t.Errorf("failed = %+v, want the single bad row", result.Failed)
	}
	if result.Oldest == nil || result.Oldest.CommentID != threadID {
		t.Errorf("oldest = %+v, want the single processed record", result.Oldest)
	}
}

func TestRun_MalformedRowsDroppedSilently(t *testing.T) {
	runner := newTestRunner(&stubResolver{})

	rows := []input.RawRow{
		row("lonely-field"),
		row(),
		row("bad", "2023-01-01"),
	}

	result, err := runner.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", result.Dropped)
	}
	if len(result.Processed) != 0 {
		t.Errorf("processed = %d, want 0", len(result.Processed))
	}
	if len(result.Failed) != 1 {
		t.Errorf("failed = %d, want 1 (malformed rows are not failures)", len(result.Failed))
	}
}

func TestRetry_IdempotentOverPersistentFailures(t *testing.T) {
	runner := newTestRunner(&stubResolver{})

	rows := []input.RawRow{
		row("bad-one", "2023-01-01"),
		row("bad-two", "2023-01-02"),
	}

	first, err := runner.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	second, err := runner.Retry(context.Background(), first.Failed)
	if err != nil {
		t.Fatalf("first Retry failed: %v", err)
	}
	third, err := runner.Retry(context.Background(), second.Failed)
	if err != nil {
		t.Fatalf("second Retry failed: %v", err)
	}

	if !reflect.DeepEqual(second.Failed, third.Failed) {
		t.Errorf("retry passes disagree: %+v vs %+v", second.Failed, third.Failed)
	}
	if !reflect.DeepEqual(first.Failed, second.Failed) {
		t.Errorf("retry mutated the failed rows: %+v vs %+v", first.Failed, second.Failed)
	}
}

func TestRetry_MergesIntoCumulativeProcessed(t *testing.T) {
	resolver := &stubResolver{
		records: map[string]*youtube.CommentRecord{
			threadID: {CommentID: threadID, LikeCount: 10},
		},
	}
	runner := newTestRunner(resolver)

	flakyID := strings.Repeat("b", 20)
	rows := []input.RawRow{
		row(threadID, "2024-03-01T00:00:00"),
		row(flakyID, "2024-01-15T00:00:00"),
	}

	first, err := runner.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(first.Processed) != 1 || len(first.Failed) != 1 {
		t.Fatalf("initial pass: processed=%d failed=%d, want 1/1", len(first.Processed), len(first.Failed))
	}

	// The flaky ID resolves on the second attempt.
	resolver.records[flakyID] = &youtube.CommentRecord{CommentID: flakyID, LikeCount: 1}

	second, err := runner.Retry(context.Background(), first.Failed)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}

	if len(second.Processed) != 2 {
		t.Errorf("cumulative processed = %d, want 2", len(second.Processed))
	}
	if len(second.NewlyResolved) != 1 || second.NewlyResolved[0].CommentID != flakyID {
		t.Errorf("newly resolved = %+v, want just the flaky record", second.NewlyResolved)
	}
	if len(second.Failed) != 0 {
		t.Errorf("failed = %d, want 0", len(second.Failed))
	}

	// Oldest tracking carries across passes: the retried record is older.
	if second.Oldest == nil || second.Oldest.CommentID != flakyID {
		t.Errorf("oldest = %+v, want the retried (older) record", second.Oldest)
	}
}

func TestRun_OldestMonotonicity(t *testing.T) {
	ids := []string{
		strings.Repeat("a", 20),
		strings.Repeat("b", 20),
		strings.Repeat("c", 20),
	}
	resolver := &stubResolver{records: map[string]*youtube.CommentRecord{}}
	for _, id := range ids {
		resolver.records[id] = &youtube.CommentRecord{CommentID: id}
	}
	runner := newTestRunner(resolver)

	timestamps := []string{"2024-03-01T00:00:00", "2024-01-15T00:00:00", "2024-06-01T00:00:00"}
	wantOldest := []string{ids[0], ids[1], ids[1]}

	for i := range ids {
		var rows []input.RawRow
		for j := 0; j <= i; j++ {
			rows = append(rows, row(ids[j], timestamps[j]))
		}
		result, err := runner.Run(context.Background(), rows)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.Oldest == nil || result.Oldest.CommentID != wantOldest[i] {
			t.Errorf("after %d rows oldest = %+v, want %s", i+1, result.Oldest, wantOldest[i])
		}
	}
}

func TestRun_UnparseableTimestampKeepsRecord(t *testing.T) {
	id := strings.Repeat("a", 20)
	resolver := &stubResolver{
		records: map[string]*youtube.CommentRecord{id: {CommentID: id}},
	}
	runner := newTestRunner(resolver)

	result, err := runner.Run(context.Background(), []input.RawRow{row(id, "not-a-date")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Processed) != 1 {
		t.Fatalf("processed = %d, want 1 (bad timestamp is non-fatal)", len(result.Processed))
	}
	if result.Oldest != nil {
		t.Errorf("oldest = %+v, want nil (unparseable timestamp is ineligible)", result.Oldest)
	}
}

func TestRun_CancellationPreservesPartialResult(t *testing.T) {
	id := strings.Repeat("a", 20)
	resolver := &stubResolver{
		records: map[string]*youtube.CommentRecord{id: {CommentID: id}},
	}
	runner := newTestRunner(resolver)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx, []input.RawRow{row(id, "2023-01-01")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil {
		t.Fatal("cancelled pass must still return the partial result")
	}
}

func TestRun_EmitsProgressEvents(t *testing.T) {
	id := strings.Repeat("a", 20)
	resolver := &stubResolver{
		records: map[string]*youtube.CommentRecord{id: {CommentID: id, VideoTitle: "V", LikeCount: 7}},
	}
	runner := newTestRunner(resolver)

	_, err := runner.Run(context.Background(), []input.RawRow{row(id, "2023-01-01")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	runner.Close()

	var progress []ProgressSnapshot
	var statuses []string
	for ev := range runner.Events() {
		switch ev.Type {
		case EventProgress:
			progress = append(progress, ev.Progress)
		case EventStatus:
			statuses = append(statuses, ev.Message)
		}
	}

	if len(progress) != 1 {
		t.Fatalf("progress events = %d, want 1", len(progress))
	}
	if progress[0].Done != 1 || progress[0].Total != 1 {
		t.Errorf("progress = %d/%d, want 1/1", progress[0].Done, progress[0].Total)
	}
	if !progress[0].HasETA {
		t.Error("ETA should be known after the first item")
	}

	found := false
	for _, msg := range statuses {
		if strings.Contains(msg, "Processed: V (Likes: 7)") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing per-item success status, got %v", statuses)
	}
}
