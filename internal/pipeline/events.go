package pipeline

import "fmt"

// EventType discriminates notifications sent to the presentation consumer.
type EventType int

const (
	// EventStatus carries a human-readable status line.
	EventStatus EventType = iota
	// EventProgress carries a progress snapshot.
	EventProgress
)

// Event is a single notification from the background pipeline to the
// foreground consumer. Events are immutable snapshots; the pipeline never
// hands out references to its own mutable state.
type Event struct {
	Type     EventType
	Message  string
	Progress ProgressSnapshot
}

// eventBufferSize is the capacity of the notification channel. The pipeline
// never blocks on a slow consumer; events beyond this buffer are dropped.
const eventBufferSize = 256

// emit delivers an event without blocking. A lagging consumer loses events
// rather than stalling the pipeline.
func (r *Runner) emit(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}

func (r *Runner) emitStatus(format string, args ...any) {
	r.emit(Event{Type: EventStatus, Message: fmt.Sprintf(format, args...)})
}
