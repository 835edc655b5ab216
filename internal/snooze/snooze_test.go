package snooze

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestActiveMissingStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")
	if active(path, "a1") {
		t.Error("expected not snoozed with missing state file")
	}
}

func TestActiveCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")
	os.WriteFile(path, []byte("not json"), 0644)

	if active(path, "a1") {
		t.Error("expected not snoozed with corrupt state file")
	}
}

func TestActiveWithinWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	state := map[string]string{"alarm/a1": time.Now().Add(5 * time.Minute).Format(time.RFC3339)}
	data, _ := json.Marshal(state)
	os.WriteFile(path, data, 0644)

	if !active(path, "a1") {
		t.Error("expected snoozed within window")
	}
}

func TestActiveExpired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	state := map[string]string{"alarm/a1": time.Now().Add(-time.Minute).Format(time.RFC3339)}
	data, _ := json.Marshal(state)
	os.WriteFile(path, data, 0644)

	if active(path, "a1") {
		t.Error("expected not snoozed after window passed")
	}
}

func TestActiveDifferentAlarm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	state := map[string]string{"alarm/a1": time.Now().Add(5 * time.Minute).Format(time.RFC3339)}
	data, _ := json.Marshal(state)
	os.WriteFile(path, data, 0644)

	if active(path, "a2") {
		t.Error("expected a2 not snoozed when only a1 is")
	}
}

func TestRecordCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "deep", "snooze.json")

	record(path, "a1", 9*time.Minute)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("state file not created: %v", err)
	}

	var state map[string]string
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	ts, ok := state["alarm/a1"]
	if !ok {
		t.Fatal("key alarm/a1 not found in state")
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("invalid timestamp: %v", err)
	}

	// Should be roughly 9 minutes out.
	diff := time.Until(parsed)
	if diff < 8*time.Minute || diff > 10*time.Minute {
		t.Errorf("expected ~9m from now, got %v", diff)
	}

	if !active(path, "a1") {
		t.Error("expected snoozed after record")
	}
}

func TestRecordPrunesExpired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	state := map[string]string{
		"alarm/old":    time.Now().Add(-time.Hour).Format(time.RFC3339),
		"alarm/broken": "not a timestamp",
	}
	data, _ := json.Marshal(state)
	os.WriteFile(path, data, 0644)

	record(path, "a1", 5*time.Minute)

	data, _ = os.ReadFile(path)
	var after map[string]string
	if err := json.Unmarshal(data, &after); err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 {
		t.Errorf("stale entries survived: %v", after)
	}
	if _, ok := after["alarm/a1"]; !ok {
		t.Error("new entry missing after prune")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	record(path, "a1", 5*time.Minute)
	record(path, "a2", 5*time.Minute)

	remove(path, "a1")

	if active(path, "a1") {
		t.Error("a1 still snoozed after clear")
	}
	if !active(path, "a2") {
		t.Error("clear removed an unrelated alarm")
	}
}

func TestClearUnknownLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	record(path, "a1", 5*time.Minute)
	before, _ := os.ReadFile(path)

	remove(path, "never-snoozed")

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("clear of unknown alarm rewrote state")
	}
}

func TestUntilReportsWindowEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snooze.json")

	record(path, "a1", 10*time.Minute)

	end, ok := until(path, "a1")
	if !ok {
		t.Fatal("expected snooze window")
	}
	diff := time.Until(end)
	if diff < 9*time.Minute || diff > 11*time.Minute {
		t.Errorf("window end %v from now, want ~10m", diff)
	}
}
