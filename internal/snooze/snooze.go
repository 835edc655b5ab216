package snooze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/duos-app/duos/internal/paths"
)

// Active returns true if the given alarm is currently snoozed. A missing or
// unreadable state file is treated as "not snoozed" (fail-open).
func Active(alarmID string) bool {
	return active(statePath(), alarmID)
}

// Until returns the end of the alarm's snooze window and true if snoozed,
// or zero time and false if not.
func Until(alarmID string) (time.Time, bool) {
	return until(statePath(), alarmID)
}

// Snooze silences the alarm for the given duration from now.
// Errors are printed to stderr but never fatal (best-effort).
func Snooze(alarmID string, d time.Duration) {
	record(statePath(), alarmID, d)
}

// Clear removes the alarm's snooze entry, if any.
func Clear(alarmID string) {
	remove(statePath(), alarmID)
}

func active(path, alarmID string) bool {
	_, ok := until(path, alarmID)
	return ok
}

func until(path, alarmID string) (time.Time, bool) {
	state := load(path)

	ts, ok := state[paths.SnoozeKey(alarmID)]
	if !ok {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	if time.Now().After(t) {
		return time.Time{}, false
	}
	return t, true
}

func record(path, alarmID string, d time.Duration) {
	state := load(path)
	prune(state)
	state[paths.SnoozeKey(alarmID)] = time.Now().Add(d).Format(time.RFC3339)
	save(path, state)
}

func remove(path, alarmID string) {
	state := load(path)
	if _, ok := state[paths.SnoozeKey(alarmID)]; !ok {
		return
	}
	delete(state, paths.SnoozeKey(alarmID))
	save(path, state)
}

func load(path string) map[string]string {
	state := make(map[string]string)
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &state) // ignore corrupt; overwrite
	}
	return state
}

// prune drops entries whose window already passed.
func prune(state map[string]string) {
	for k, v := range state {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil || time.Now().After(t) {
			delete(state, k)
		}
	}
}

func save(path string, state map[string]string) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "snooze: marshal: %v\n", err)
		return
	}
	if err := paths.AtomicWrite(path, data); err != nil {
		fmt.Fprintf(os.Stderr, "snooze: write: %v\n", err)
	}
}

func statePath() string {
	return filepath.Join(paths.DataDir(), paths.SnoozeFileName)
}
