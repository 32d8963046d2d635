package pipeline

import (
	"testing"
	"time"
)

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		done    int
		total   int
		elapsed time.Duration
		wantETA time.Duration
		hasETA  bool
	}{
		{
			name:    "halfway",
			done:    5,
			total:   10,
			elapsed: 50 * time.Second,
			wantETA: 50 * time.Second, // 10s/item * 5 remaining
			hasETA:  true,
		},
		{
			name:    "one of four",
			done:    1,
			total:   4,
			elapsed: 2 * time.Second,
			wantETA: 6 * time.Second,
			hasETA:  true,
		},
		{
			name:    "nothing done yet",
			done:    0,
			total:   10,
			elapsed: time.Second,
			hasETA:  false,
		},
		{
			name:    "complete",
			done:    3,
			total:   3,
			elapsed: 9 * time.Second,
			wantETA: 0,
			hasETA:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(tt.done, tt.total, tt.elapsed)
			if s.HasETA != tt.hasETA {
				t.Fatalf("HasETA = %v, want %v", s.HasETA, tt.hasETA)
			}
			if tt.hasETA && s.ETA != tt.wantETA {
				t.Errorf("ETA = %v, want %v", s.ETA, tt.wantETA)
			}
		})
	}
}

func TestProgressSnapshot_Percent(t *testing.T) {
	s := snapshot(1, 8, time.Second)
	if got := s.Percent(); got != 12.5 {
		t.Errorf("Percent = %v, want 12.5", got)
	}

	empty := snapshot(0, 0, 0)
	if got := empty.Percent(); got != 0 {
		t.Errorf("Percent on empty batch = %v, want 0", got)
	}
}

func TestProgressSnapshot_FormatETA(t *testing.T) {
	tests := []struct {
		name string
		s    ProgressSnapshot
		want string
	}{
		{"unknown", ProgressSnapshot{}, "--:--"},
		{"seconds only", ProgressSnapshot{ETA: 42 * time.Second, HasETA: true}, "00:42"},
		{"minutes and seconds", ProgressSnapshot{ETA: 3*time.Minute + 5*time.Second, HasETA: true}, "03:05"},
		{"zero remaining", ProgressSnapshot{HasETA: true}, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.FormatETA(); got != tt.want {
				t.Errorf("FormatETA = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressSnapshot_String(t *testing.T) {
	s := snapshot(1, 8, 2*time.Second)
	want := "Progress: 12.5% (1/8) | ETA: 00:14"
	if got := s.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
