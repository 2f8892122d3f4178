// Filewren - interactive LLM assistant for refactoring and managing files
// License: MIT

package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// spinner shows a rotating progress indicator on stderr while a chat request
// is in flight. stderr keeps piped stdout clean.
type spinner struct {
	frames  []rune
	text    string
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSpinner(text string) *spinner {
	return &spinner{
		frames:  []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'},
		text:    text,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				fmt.Fprintf(os.Stderr, "\r%c %s", frame, s.text)
				i++
			}
		}
	}()
}

// Stop halts the animation and waits for the line to be cleared.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
	})
}
