package jobs

import (
	"context"
	"log"
	"time"
)

// Sweeper is a periodic maintenance task, such as evicting expired
// search cache entries or discarding stale rate-limit timestamps.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Worker runs every registered sweeper on a fixed interval. A failing
// sweeper is logged and does not stop the worker or block the others.
type Worker struct {
	sweepers []Sweeper
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewWorker creates a maintenance worker over the given sweepers.
func NewWorker(interval time.Duration, sweepers ...Sweeper) *Worker {
	return &Worker{
		sweepers: sweepers,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins the worker's sweep loop. It blocks until the context is
// cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("Maintenance worker started with sweep interval: %v", w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Maintenance worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("Maintenance worker stopped: stop signal received")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	for _, s := range w.sweepers {
		if err := s.Sweep(ctx); err != nil {
			log.Printf("Error running maintenance sweep: %v", err)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Println("Maintenance worker shutdown complete")
}
