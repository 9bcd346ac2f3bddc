// File: internal/control/stdin.go
package control

import (
	"bufio"
	"io"
	"sync"
)

// LineKeySource adapts a line-oriented reader (stdin in practice) into a
// KeySource: each line is emitted as a single key press named by its text.
// Typing "page down" toggles pause, "page up" terminates. It stands in for a
// global keyboard hook on headless setups where none is available.
type LineKeySource struct {
	r      io.Reader
	events chan KeyEvent
	done   chan struct{}
	once   sync.Once
}

// NewLineKeySource starts reading r in the background. The event channel is
// closed when r hits EOF or errors, or after Close.
func NewLineKeySource(r io.Reader) *LineKeySource {
	s := &LineKeySource{
		r:      r,
		events: make(chan KeyEvent, 8),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.events)
		scanner := bufio.NewScanner(s.r)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			select {
			case s.events <- KeyEvent{Name: line, Down: true}:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func (s *LineKeySource) Events() <-chan KeyEvent { return s.events }

// Close stops the source. When the wrapped reader is closeable it is closed
// too, unblocking a pending read; otherwise the goroutine exits once that
// read returns. Safe to call more than once.
func (s *LineKeySource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if c, ok := s.r.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}
