package utils

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
)

// Spinner shows a progress indicator while a long running task is processed.
type Spinner struct {
	mu       sync.Mutex
	writer   io.Writer
	message  string
	delay    time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner instantiates a new Spinner writing to w.
func NewSpinner(w io.Writer, message string, delay time.Duration) *Spinner {
	return &Spinner{
		writer:  w,
		message: message,
		delay:   delay,
	}
}

// Start starts the process indicator.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		for {
			for _, r := range `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏` {
				select {
				case <-stop:
					return
				default:
					fmt.Fprintf(s.writer, "\r%s %s", s.message, aurora.Green(string(r)))
					time.Sleep(s.delay)
				}
			}
		}
	}(s.stopChan, s.done)
}

// Stop stops the process indicator and replaces it with msg.
func (s *Spinner) Stop(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.done
	s.stopChan = nil

	fmt.Fprintf(s.writer, "\r\033[K%s\n", msg)
}
