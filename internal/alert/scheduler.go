package alert

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Scheduler runs the alert evaluation on a fixed interval. At most one scan
// runs at a time; a tick that fires while a scan is still in progress is
// skipped, not queued.
type Scheduler struct {
	service  Service
	interval time.Duration
	inFlight atomic.Bool
}

func NewScheduler(service Service, interval time.Duration) *Scheduler {
	return &Scheduler{service: service, interval: interval}
}

// Start launches the scan loop and returns a stop function. One scan runs
// immediately so the latest result is populated at startup.
func (s *Scheduler) Start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		go s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go s.runOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("alert: previous scan still running, skipping tick")
		return
	}
	defer s.inFlight.Store(false)

	result, err := s.service.CheckAll(ctx)
	if err != nil {
		log.Printf("alert: scan failed: %v", err)
		return
	}
	log.Printf("alert: scan completed, %d alert(s)", len(result.Items))
}
