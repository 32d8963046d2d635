package youtube

import (
	"errors"
	"fmt"
	"time"
)

// Placeholder is used for text and titles that are absent upstream.
const Placeholder = "N/A"

var (
	// ErrNotFound indicates the service returned zero matching items.
	ErrNotFound = errors.New("comment not found")
	// ErrDepthExceeded indicates a reply's parent chain was deeper than the
	// resolver is willing to walk.
	ErrDepthExceeded = errors.New("parent chain depth exceeded")
)

// CommentRecord is a fully resolved comment. Records are immutable after
// creation; the pipeline attaches the originating row's timestamp verbatim
// and never mutates anything else.
type CommentRecord struct {
	CommentID  string `json:"comment_id"`
	Text       string `json:"text"`
	VideoTitle string `json:"video_title"`
	LikeCount  int64  `json:"like_count"`
	ReplyCount int64  `json:"reply_count"`
	IsReply    bool   `json:"is_reply"`
	VideoID    string `json:"video_id,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// CommentURL rebuilds the watch URL that links directly to the comment.
func CommentURL(rec *CommentRecord) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&lc=%s", rec.VideoID, rec.CommentID)
}

// CommentSnippet is the subset of a single-comment lookup the resolver needs.
type CommentSnippet struct {
	VideoID   string
	ParentID  string
	Text      string
	LikeCount int64
}

// ThreadSnippet is the subset of a comment-thread lookup the resolver needs.
// The text and like count belong to the thread's top-level comment.
type ThreadSnippet struct {
	VideoID    string
	Text       string
	LikeCount  int64
	ReplyCount int64
}

// LatencyStats summarizes observed remote call latency for display purposes.
type LatencyStats struct {
	Count int64
	Mean  time.Duration
	P99   time.Duration
}
