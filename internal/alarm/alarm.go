package alarm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Alarm is the immutable snapshot the lifecycle manager works from. It is
// the JSON shape alarm rows travel in on the change feed; the manager never
// mutates it, only derives scheduler state from it.
type Alarm struct {
	ID         string   `json:"id"`
	Time       string   `json:"time"`
	Label      *string  `json:"label"`
	Active     bool     `json:"active"`
	RepeatDays []string `json:"repeat_days,omitempty"`
	Sound      string   `json:"sound"`
}

// DefaultBody is the notification body for alarms without a label.
const DefaultBody = "Time to wake up!"

// Body returns the notification body: the label, or the default.
func (a Alarm) Body() string {
	if a.Label != nil && *a.Label != "" {
		return *a.Label
	}
	return DefaultBody
}

// SoundKeys lists the valid alarm sounds.
var SoundKeys = []string{"gentle", "energetic", "classic", "nature"}

// NormalizeSound maps an absent or unrecognized sound key to "classic".
func NormalizeSound(key string) string {
	for _, k := range SoundKeys {
		if key == k {
			return key
		}
	}
	return "classic"
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" wall-clock time.
func ParseTimeOfDay(s string) (hour, min, sec int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("alarm: bad time %q", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, fmt.Errorf("alarm: bad hour in %q", s)
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, 0, fmt.Errorf("alarm: bad minute in %q", s)
	}
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, 0, 0, fmt.Errorf("alarm: bad second in %q", s)
		}
	}
	return hour, min, sec, nil
}

// NextTrigger returns the next instant the alarm should fire after now, in
// now's location: today at the alarm's time if that is still in the future,
// otherwise the next following day. When RepeatDays is non-empty the
// candidate advances to the next selected weekday; unknown tags are
// ignored, and a set with no valid tags behaves like every day.
func NextTrigger(now time.Time, a Alarm) (time.Time, error) {
	hour, min, sec, err := ParseTimeOfDay(a.Time)
	if err != nil {
		return time.Time{}, err
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	selected := make(map[time.Weekday]bool)
	for _, tag := range a.RepeatDays {
		if wd, ok := weekdays[strings.ToLower(tag)]; ok {
			selected[wd] = true
		}
	}
	if len(selected) == 0 {
		return at, nil
	}

	for i := 0; i < 7; i++ {
		if selected[at.Weekday()] {
			return at, nil
		}
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}
