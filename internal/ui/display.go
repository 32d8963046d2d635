// Package ui renders pipeline progress and status lines to a terminal. It is
// the foreground consumer of the pipeline's event channel; the pipeline never
// waits for it.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tracertea/commentflow/internal/pipeline"
	"github.com/tracertea/commentflow/internal/youtube"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

const progressBarWidth = 40

// LatencyFunc reports remote call latency for the stats line. May be nil.
type LatencyFunc func() youtube.LatencyStats

// Display drains a pipeline event channel, printing status lines and keeping
// a single live progress line at the bottom.
type Display struct {
	events  <-chan pipeline.Event
	latency LatencyFunc
	out     io.Writer
	color   bool

	lastProgress string
}

// NewDisplay creates a Display over the runner's event channel.
func NewDisplay(events <-chan pipeline.Event, latency LatencyFunc, out io.Writer, color bool) *Display {
	return &Display{
		events:  events,
		latency: latency,
		out:     out,
		color:   color,
	}
}

// Run consumes events until the channel closes. Intended to run in its own
// goroutine alongside the pipeline.
func (d *Display) Run(wg *sync.WaitGroup) {
	defer wg.Done()

	for ev := range d.events {
		switch ev.Type {
		case pipeline.EventStatus:
			d.printStatus(ev.Message)
		case pipeline.EventProgress:
			d.renderProgress(ev.Progress)
		}
	}

	if d.lastProgress != "" {
		fmt.Fprint(d.out, "\n")
	}
}

// printStatus clears the live progress line, prints the status, then restores
// the progress line underneath.
func (d *Display) printStatus(message string) {
	fmt.Fprint(d.out, "\r\033[2K")
	fmt.Fprintln(d.out, message)
	if d.lastProgress != "" {
		fmt.Fprint(d.out, d.lastProgress)
	}
}

func (d *Display) renderProgress(p pipeline.ProgressSnapshot) {
	var sb strings.Builder

	sb.WriteString(d.buildProgressBar(p.Percent()))
	sb.WriteString(" ")
	sb.WriteString(d.colored(colorGreen, fmt.Sprintf("%.1f%%", p.Percent())))
	sb.WriteString(fmt.Sprintf(" (%d/%d)", p.Done, p.Total))
	sb.WriteString(" | ETA: ")
	sb.WriteString(d.colored(colorYellow, p.FormatETA()))

	if d.latency != nil {
		if stats := d.latency(); stats.Count > 0 {
			sb.WriteString(" | API (avg/p99): ")
			sb.WriteString(d.colored(colorBlue, fmt.Sprintf("%s/%s",
				stats.Mean.Round(time.Millisecond), stats.P99.Round(time.Millisecond))))
		}
	}

	d.lastProgress = sb.String()
	fmt.Fprint(d.out, "\r\033[2K")
	fmt.Fprint(d.out, d.lastProgress)
}

func (d *Display) buildProgressBar(percent float64) string {
	filledWidth := int((percent / 100) * float64(progressBarWidth))
	if filledWidth > progressBarWidth {
		filledWidth = progressBarWidth
	}
	bar := strings.Repeat("=", filledWidth) + ">" + strings.Repeat(" ", progressBarWidth-filledWidth)
	return "[" + d.colored(colorGreen, bar) + "]"
}

func (d *Display) colored(color, s string) string {
	if !d.color {
		return s
	}
	return color + s + colorReset
}
