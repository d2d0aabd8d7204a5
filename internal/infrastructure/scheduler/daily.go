package scheduler

import (
	"context"
	"time"

	"StockNews/internal/ports"
)

// DailyScheduler fires the job once per day at a fixed local hour.
type DailyScheduler struct {
	hour int
	loc  *time.Location
	stop chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler for the given hour and timezone.
func NewDailyScheduler(hour int, loc *time.Location) *DailyScheduler {
	return &DailyScheduler{hour: hour, loc: loc}
}

// Start launches the timer goroutine. The first firing is the next
// occurrence of the configured hour.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		for {
			timer := time.NewTimer(time.Until(d.nextRun(time.Now().In(d.loc))))
			select {
			case t := <-timer.C:
				job(t.In(d.loc))
			case <-ctx.Done():
				timer.Stop()
				return
			case <-d.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

func (d *DailyScheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, 0, 0, 0, d.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
