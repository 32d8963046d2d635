package youtube

import (
	"context"
	"fmt"
	"log/slog"
)

// maxParentDepth caps the parent-chain walk for reply comments. Upstream data
// should never nest this deep; exceeding it is treated as a resolve failure.
const maxParentDepth = 10

// Resolver turns a canonical comment identifier into a CommentRecord by
// chaining remote lookups: comment thread first, then single-comment
// fallback, then parent-chain video resolution, then the video title.
type Resolver struct {
	api    API
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given API.
func NewResolver(api API, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:    api,
		logger: logger.With("component", "resolver"),
	}
}

// Resolve performs the chained lookup for a single comment identifier.
// Transport errors and empty results both surface as errors; the caller does
// not retry within a pass.
func (r *Resolver) Resolve(ctx context.Context, commentID string) (*CommentRecord, error) {
	thread, found, err := r.api.Thread(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !found {
		// The identifier denotes a reply, not a thread root.
		rec, err := r.resolveComment(ctx, commentID)
		if err != nil {
			return nil, err
		}
		rec.IsReply = true
		rec.ReplyCount = 0
		return rec, nil
	}

	title := r.videoTitle(ctx, thread.VideoID)
	return &CommentRecord{
		CommentID:  commentID,
		Text:       orPlaceholder(thread.Text),
		VideoTitle: title,
		LikeCount:  thread.LikeCount,
		ReplyCount: thread.ReplyCount,
		IsReply:    false,
		VideoID:    thread.VideoID,
	}, nil
}

// resolveComment fetches a single comment and, when its snippet carries no
// video ID, walks the parent chain until one is found or the depth cap trips.
func (r *Resolver) resolveComment(ctx context.Context, commentID string) (*CommentRecord, error) {
	snippet, found, err := r.api.Comment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, commentID)
	}

	videoID := snippet.VideoID
	parentID := snippet.ParentID
	for depth := 0; videoID == "" && parentID != ""; depth++ {
		if depth >= maxParentDepth {
			return nil, fmt.Errorf("%w: comment %s", ErrDepthExceeded, commentID)
		}
		parent, found, err := r.api.Comment(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		videoID = parent.VideoID
		parentID = parent.ParentID
	}

	title := r.videoTitle(ctx, videoID)
	return &CommentRecord{
		CommentID:  commentID,
		Text:       orPlaceholder(snippet.Text),
		VideoTitle: title,
		LikeCount:  snippet.LikeCount,
		VideoID:    videoID,
	}, nil
}

// videoTitle resolves a video ID to its title. An empty ID short-circuits to
// the placeholder without a network call, and lookup failures degrade to the
// placeholder rather than failing the comment resolution.
func (r *Resolver) videoTitle(ctx context.Context, videoID string) string {
	if videoID == "" {
		return Placeholder
	}
	title, found, err := r.api.VideoTitle(ctx, videoID)
	if err != nil {
		r.logger.Warn("Video title lookup failed.", "video_id", videoID, "error", err)
		return Placeholder
	}
	if !found {
		return Placeholder
	}
	return title
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
