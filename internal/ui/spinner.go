package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	spinnerInterval = 80 * time.Millisecond
	// elapsed seconds are appended once a step runs longer than this
	spinnerShowElapsed = 3 * time.Second
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on stderr while RPC calls run, so
// stdout stays clean when it is piped. Long multi-step flows use the
// Progress model instead.
type Spinner struct {
	out     io.Writer
	mu      sync.Mutex
	msg     string
	started time.Time
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(msg string) *Spinner {
	return NewSpinnerTo(os.Stderr, msg)
}

// NewSpinnerTo creates a spinner writing to w.
func NewSpinnerTo(w io.Writer, msg string) *Spinner {
	return &Spinner{
		out:  w,
		msg:  msg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	s.started = time.Now()
	s.draw(0)
	go func() {
		defer close(s.done)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()
		for i := 1; ; i++ {
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%-72s\r", "")
				return
			case <-tick.C:
				s.draw(i)
			}
		}
	}()
}

// Update replaces the message while the spinner keeps running, e.g. when an
// approve moves from broadcast to waiting for its receipt.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

func (s *Spinner) draw(i int) {
	s.mu.Lock()
	msg := s.msg
	s.mu.Unlock()
	if d := time.Since(s.started); d >= spinnerShowElapsed {
		msg += StyleMeta.Render(fmt.Sprintf(" (%ds)", int(d.Seconds())))
	}
	frame := StyleChain.Render(spinnerFrames[i%len(spinnerFrames)])
	fmt.Fprintf(s.out, "\r%s  %s", frame, msg)
}

// Stop halts the spinner and waits for it to clear its line. Safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}
