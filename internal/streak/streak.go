// Package streak counts consecutive days with at least one confirmed task.
package streak

import "time"

const dayKey = "2006-01-02"

// Days returns the length of the run of consecutive calendar days with a
// confirmed task, ending today or yesterday in local time. A confirmation
// today is not required to keep a streak alive (yesterday's still counts),
// but a full missed day resets it to zero. Timestamps are bucketed by local
// calendar date.
func Days(now time.Time, confirmed []time.Time) int {
	if len(confirmed) == 0 {
		return 0
	}

	byDate := make(map[string]bool, len(confirmed))
	for _, at := range confirmed {
		byDate[at.Local().Format(dayKey)] = true
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	check := today
	if !byDate[today.Format(dayKey)] {
		if !byDate[yesterday.Format(dayKey)] {
			return 0
		}
		check = yesterday
	}

	days := 0
	for byDate[check.Format(dayKey)] {
		days++
		check = check.AddDate(0, 0, -1)
	}
	return days
}
