// Package pipeline drives the sequential comment resolution loop: parse each
// raw row, resolve it remotely, track per-row success and failure, and report
// progress to a presentation consumer over a one-way event channel.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/tracertea/commentflow/internal/input"
	"github.com/tracertea/commentflow/internal/reference"
	"github.com/tracertea/commentflow/internal/youtube"
)

// Resolver is the remote lookup dependency. The production implementation is
// youtube.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, commentID string) (*youtube.CommentRecord, error)
}

// Result is an immutable summary of one pass, handed to the caller when the
// pass finishes (or is cancelled part-way).
type Result struct {
	// Processed is the cumulative resolved collection across all passes of
	// this Runner, in processing order.
	Processed []youtube.CommentRecord
	// NewlyResolved holds only the records resolved during this pass.
	NewlyResolved []youtube.CommentRecord
	// Failed holds the rows that could not be parsed or resolved during this
	// pass; it replaces any earlier failed list.
	Failed []input.RawRow
	// Oldest is the record with the earliest parseable timestamp seen across
	// all passes, or nil if none parsed.
	Oldest *youtube.CommentRecord
	// Dropped counts malformed rows (fewer than two fields) silently skipped.
	Dropped int
	// Elapsed is the wall-clock duration of this pass.
	Elapsed time.Duration
}

// Runner processes row batches strictly sequentially: one resolution,
// including all of its nested lookups, completes before the next row begins.
// This is deliberate, to respect remote rate limits and keep ETA accounting
// exact.
type Runner struct {
	resolver Resolver
	limiter  *rate.Limiter
	logger   *slog.Logger
	events   chan Event

	state *batchState
}

// NewRunner creates a Runner. limiter may be nil to run unthrottled.
func NewRunner(resolver Resolver, limiter *rate.Limiter, logger *slog.Logger) *Runner {
	return &Runner{
		resolver: resolver,
		limiter:  limiter,
		logger:   logger.With("component", "pipeline"),
		events:   make(chan Event, eventBufferSize),
		state:    newBatchState(),
	}
}

// Events returns the notification channel. The consumer drains it at its own
// pace; the Runner never blocks on it. Call Close once no more passes will
// run.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Close closes the event channel.
func (r *Runner) Close() {
	close(r.events)
}

// Run executes the initial pass over rows. State from any previous invocation
// is discarded.
func (r *Runner) Run(ctx context.Context, rows []input.RawRow) (*Result, error) {
	r.state = newBatchState()
	return r.runPass(ctx, rows)
}

// Retry executes a retry pass over previously failed rows. Newly resolved
// records join the cumulative processed collection, and the returned failed
// list replaces the previous one. Retrying is idempotent over rows that keep
// failing.
func (r *Runner) Retry(ctx context.Context, failedRows []input.RawRow) (*Result, error) {
	return r.runPass(ctx, failedRows)
}

func (r *Runner) runPass(ctx context.Context, rows []input.RawRow) (*Result, error) {
	start := time.Now()
	total := len(rows)
	done := 0
	dropped := 0
	firstNew := len(r.state.processed)

	var failed []input.RawRow

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return r.result(failed, firstNew, dropped, start), err
		}

		if row.Malformed() {
			dropped++
			continue
		}
		done++

		commentID, err := reference.Parse(row.Reference())
		if err != nil {
			r.emitStatus("Skipping invalid entry: %s", row.Reference())
			r.logger.Debug("Reference did not parse.", "reference", row.Reference())
			failed = append(failed, row)
			r.emitProgress(done, total, start)
			continue
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return r.result(failed, firstNew, dropped, start), err
			}
		}

		rec, err := r.resolver.Resolve(ctx, commentID)
		if err != nil {
			r.emitStatus("Skipping comment ID: %s", commentID)
			r.logger.Debug("Resolution failed.", "comment_id", commentID, "error", err)
			failed = append(failed, row)
			r.emitProgress(done, total, start)
			continue
		}

		record := *rec
		record.Timestamp = row.Timestamp()
		if ok := r.state.add(record); !ok {
			r.emitStatus("Warning: Could not parse timestamp '%s'", row.Timestamp())
		}

		r.emitStatus("Processed: %s (Likes: %d)", record.VideoTitle, record.LikeCount)
		r.emitProgress(done, total, start)
	}

	return r.result(failed, firstNew, dropped, start), nil
}

func (r *Runner) emitProgress(done, total int, start time.Time) {
	r.emit(Event{
		Type:     EventProgress,
		Progress: snapshot(done, total, time.Since(start)),
	})
}

// result copies the pass outcome out of the runner-owned state.
func (r *Runner) result(failed []input.RawRow, firstNew, dropped int, start time.Time) *Result {
	res := &Result{
		Processed:     append([]youtube.CommentRecord(nil), r.state.processed...),
		NewlyResolved: append([]youtube.CommentRecord(nil), r.state.processed[firstNew:]...),
		Failed:        failed,
		Oldest:        r.state.oldest(),
		Dropped:       dropped,
		Elapsed:       time.Since(start),
	}
	return res
}
