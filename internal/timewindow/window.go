// Package timewindow computes the Taipei crawl window for a run.
package timewindow

import "time"

// Window returns the [start, end] interval of news to crawl for a run at
// now. The window ends at 08:00 of the run day and starts at 14:00 of the
// previous trading day: one day back Tuesday through Saturday, three days
// back on Monday and two days back on Sunday so both reach Friday 14:00.
func Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)

	var daysBack int
	switch now.Weekday() {
	case time.Monday:
		daysBack = 3
	case time.Sunday:
		daysBack = 2
	default:
		daysBack = 1
	}

	startDay := now.AddDate(0, 0, -daysBack)
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 14, 0, 0, 0, loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, loc)
	return start, end
}
