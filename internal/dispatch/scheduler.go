package dispatch

import (
	"sync"
	"time"
)

// Scheduler runs repeating tasks by posting them to an owner goroutine.
type Scheduler struct {
	post func(func())
}

// NewScheduler creates a scheduler delivering ticks through post.
func NewScheduler(post func(func())) *Scheduler {
	return &Scheduler{post: post}
}

// Every posts fn every d until stop is called. stop does not wait: the
// ticker goroutine may be blocked in post while its owner calls stop, so a
// tick posted just before stop can still run.
func (s *Scheduler) Every(d time.Duration, fn func()) (stop func()) {
	quit := make(chan struct{})
	go func() {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-quit:
				return
			case <-t.C:
			}
			// Prefer quit when both are ready.
			select {
			case <-quit:
				return
			default:
			}
			s.post(fn)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}
