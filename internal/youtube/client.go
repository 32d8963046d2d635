// Package youtube resolves canonical comment identifiers to comment records
// via the YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// API is the remote lookup surface the resolver depends on. The boolean
// result distinguishes "zero matching items" from transport failure.
type API interface {
	VideoTitle(ctx context.Context, videoID string) (string, bool, error)
	Comment(ctx context.Context, commentID string) (*CommentSnippet, bool, error)
	Thread(ctx context.Context, commentID string) (*ThreadSnippet, bool, error)
}

// Client implements API against the real YouTube Data API v3 using an API
// key. Every call carries a timeout and records its latency.
type Client struct {
	svc     *youtube.Service
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// DefaultCallTimeout bounds a single remote lookup so the pipeline cannot
// stall indefinitely on a dead connection.
const DefaultCallTimeout = 30 * time.Second

// NewClient creates a YouTube Data API client keyed by apiKey.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{
		svc:     svc,
		timeout: timeout,
		logger:  logger.With("component", "youtube_client"),
		// Latencies in milliseconds, up to one minute.
		hist: hdrhistogram.New(1, 60_000, 3),
	}, nil
}

// VideoTitle fetches the snippet title for a video ID.
func (c *Client) VideoTitle(ctx context.Context, videoID string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	c.record(time.Since(start))
	if err != nil {
		return "", false, fmt.Errorf("videos.list failed for %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return "", false, nil
	}
	return resp.Items[0].Snippet.Title, true, nil
}

// Comment fetches the snippet of a single comment by ID.
func (c *Client) Comment(ctx context.Context, commentID string) (*CommentSnippet, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.Comments.List([]string{"snippet"}).Id(commentID).Context(ctx).Do()
	c.record(time.Since(start))
	if err != nil {
		return nil, false, fmt.Errorf("comments.list failed for %s: %w", commentID, err)
	}
	if len(resp.Items) == 0 {
		return nil, false, nil
	}

	snippet := resp.Items[0].Snippet
	return &CommentSnippet{
		VideoID:   snippet.VideoId,
		ParentID:  snippet.ParentId,
		Text:      snippet.TextDisplay,
		LikeCount: snippet.LikeCount,
	}, true, nil
}

// Thread fetches a comment thread (top-level comment plus reply metadata).
func (c *Client) Thread(ctx context.Context, commentID string) (*ThreadSnippet, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.svc.CommentThreads.List([]string{"snippet", "replies"}).Id(commentID).Context(ctx).Do()
	c.record(time.Since(start))
	if err != nil {
		return nil, false, fmt.Errorf("commentThreads.list failed for %s: %w", commentID, err)
	}
	if len(resp.Items) == 0 {
		return nil, false, nil
	}

	snippet := resp.Items[0].Snippet
	top := snippet.TopLevelComment.Snippet
	return &ThreadSnippet{
		VideoID:    top.VideoId,
		Text:       top.TextDisplay,
		LikeCount:  top.LikeCount,
		ReplyCount: snippet.TotalReplyCount,
	}, true, nil
}

func (c *Client) record(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.hist.RecordValue(elapsed.Milliseconds()); err != nil {
		// Out-of-range samples (over a minute) are clamped to the max.
		_ = c.hist.RecordValue(c.hist.HighestTrackableValue())
	}
}

// Latency returns the mean and p99 of all recorded call latencies.
func (c *Client) Latency() LatencyStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return LatencyStats{
		Count: c.hist.TotalCount(),
		Mean:  time.Duration(c.hist.Mean()) * time.Millisecond,
		P99:   time.Duration(c.hist.ValueAtQuantile(99)) * time.Millisecond,
	}
}
