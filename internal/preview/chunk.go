package preview

import (
	"context"
	"time"
)

// chunksTimeout groups items from in into batches of at most max items.
// A batch is flushed when it is full, when interval has passed since its
// first item arrived, or when in is closed. Empty batches are never
// flushed. It returns false if ctx was cancelled or flush refused a batch.
func chunksTimeout[T any](ctx context.Context, in <-chan T, max int, interval time.Duration, flush func([]T) bool) bool {
	if max < 1 {
		max = 1
	}

	var (
		batch []T
		timer *time.Timer
		fire  <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, fire = nil, nil
		}
	}
	defer stopTimer()

	send := func() bool {
		stopTimer()
		out := batch
		batch = nil
		return flush(out)
	}

	for {
		select {
		case <-ctx.Done():
			return false

		case item, ok := <-in:
			if !ok {
				if len(batch) == 0 {
					return ctx.Err() == nil
				}
				return send()
			}
			batch = append(batch, item)
			if len(batch) == 1 {
				timer = time.NewTimer(interval)
				fire = timer.C
			}
			if len(batch) >= max && !send() {
				return false
			}

		case <-fire:
			timer, fire = nil, nil
			if !send() {
				return false
			}
		}
	}
}
