package pipeline

import (
	"errors"

	"github.com/tracertea/commentflow/internal/youtube"
)

// ErrEmptyBatch is returned when a summary is requested over zero records.
var ErrEmptyBatch = errors.New("no processed comments to summarize")

// Stats holds the superlative statistics over a processed collection.
type Stats struct {
	TotalProcessed int
	// MostLiked is the record with the highest like count; ties go to the
	// earliest record in processing order.
	MostLiked youtube.CommentRecord
	// MostReplied is the record with the highest reply count; records
	// resolved as replies compare as zero.
	MostReplied youtube.CommentRecord
	// Oldest is the record with the earliest parseable timestamp, or nil if
	// no record had one.
	Oldest *youtube.CommentRecord
}

// Summarize computes the batch statistics. oldest is the pipeline's tracked
// oldest record (may be nil). Pure and deterministic.
func Summarize(processed []youtube.CommentRecord, oldest *youtube.CommentRecord) (*Stats, error) {
	if len(processed) == 0 {
		return nil, ErrEmptyBatch
	}

	mostLiked := processed[0]
	mostReplied := processed[0]
	for _, rec := range processed[1:] {
		if rec.LikeCount > mostLiked.LikeCount {
			mostLiked = rec
		}
		if rec.ReplyCount > mostReplied.ReplyCount {
			mostReplied = rec
		}
	}

	return &Stats{
		TotalProcessed: len(processed),
		MostLiked:      mostLiked,
		MostReplied:    mostReplied,
		Oldest:         oldest,
	}, nil
}
