package semaphore

import (
	"context"
	"errors"
	"time"
)

var ErrAcquireTimeout = errors.New("semaphore acquire timeout exceeded")

type Semaphore struct {
	semaCh chan struct{}
}

func New(maxRequestCount uint64) *Semaphore {
	if maxRequestCount == 0 {
		maxRequestCount = 1
	}
	return &Semaphore{
		semaCh: make(chan struct{}, maxRequestCount),
	}
}

func (s *Semaphore) AcquireWithTimeout(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint: wrapcheck // context error as is
	case <-timer.C:
		return ErrAcquireTimeout
	case s.semaCh <- struct{}{}:
		return nil
	}
}

func (s *Semaphore) Release() {
	<-s.semaCh
}

func (s *Semaphore) InUse() int {
	return len(s.semaCh)
}
