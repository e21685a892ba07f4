package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner("Computing minimal set...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() should report true after Stop")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel func() (context.Context, context.CancelFunc)
	}{
		{
			name:   "cancel",
			cancel: func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
		},
		{
			name: "timeout",
			cancel: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.cancel()
			s := newSpinnerWithContext(ctx, "Computing minimal set...")
			s.Start()

			cancel()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its parent context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Probing tools...")
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner("Probing tools...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("conda-tree 1.1.0")
}

func TestSpinnerOutput(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    bool
	}{
		{name: "terminal", enabled: true, want: true},
		{name: "redirected", enabled: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := newSpinner("Computing minimal set...")
			s.w = &buf
			s.enabled = tt.enabled

			s.Start()
			time.Sleep(100 * time.Millisecond)
			s.SetMessage("Writing environment.yml...")
			time.Sleep(100 * time.Millisecond)
			s.Stop()

			out := buf.String()
			if got := strings.Contains(out, "Writing environment.yml"); got != tt.want {
				t.Errorf("frame with new message written = %v, want %v (output %q)", got, tt.want, out)
			}
		})
	}
}

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
