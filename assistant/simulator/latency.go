package simulator

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency is a random delay drawn uniformly from [Min, Max].
type Latency struct {
	Min time.Duration
	Max time.Duration
}

func (l Latency) draw() time.Duration {
	if l.Max <= l.Min {
		return l.Min
	}
	return l.Min + rand.N(l.Max-l.Min)
}

// wait sleeps for one drawn delay or until ctx is done.
func (l Latency) wait(ctx context.Context) error {
	d := l.draw()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
