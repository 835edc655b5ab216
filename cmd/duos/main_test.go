package main

import (
	"strings"
	"testing"
	"time"

	"github.com/duos-app/duos/internal/config"
	"github.com/duos-app/duos/internal/store"
)

var testCfg = config.Config{
	UserID: "u1",
	PairID: "p1",
	Sound:  "classic",
}

func TestParseAlarmAddMinimal(t *testing.T) {
	a, err := parseAlarmAdd([]string{"07:30"}, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Time != "07:30" || !a.Active || a.Sound != "classic" {
		t.Errorf("alarm = %+v", a)
	}
	if a.PairID != "p1" || a.CreatedBy != "u1" {
		t.Errorf("identity fields = %q, %q", a.PairID, a.CreatedBy)
	}
	if a.Label != nil {
		t.Errorf("label = %q, want none", *a.Label)
	}
}

func TestParseAlarmAddFull(t *testing.T) {
	a, err := parseAlarmAdd(
		[]string{"06:45", "morning", "run", "--sound", "nature", "--days", "mon,wed,fri"},
		testCfg,
	)
	if err != nil {
		t.Fatal(err)
	}
	if a.Time != "06:45" {
		t.Errorf("time = %q", a.Time)
	}
	if a.Label == nil || *a.Label != "morning run" {
		t.Errorf("label = %v, want \"morning run\"", a.Label)
	}
	if a.Sound != "nature" {
		t.Errorf("sound = %q", a.Sound)
	}
	if len(a.RepeatDays) != 3 || a.RepeatDays[0] != "mon" || a.RepeatDays[2] != "fri" {
		t.Errorf("repeat days = %v", a.RepeatDays)
	}
}

func TestParseAlarmAddOff(t *testing.T) {
	a, err := parseAlarmAdd([]string{"22:00", "--off"}, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Active {
		t.Error("expected inactive alarm with --off")
	}
}

func TestParseAlarmAddUnknownSoundNormalized(t *testing.T) {
	a, err := parseAlarmAdd([]string{"07:00", "--sound", "airhorn"}, testCfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Sound != "classic" {
		t.Errorf("sound = %q, want classic", a.Sound)
	}
}

func TestParseAlarmAddBadTime(t *testing.T) {
	if _, err := parseAlarmAdd([]string{"25:99"}, testCfg); err == nil {
		t.Error("expected error for invalid time")
	}
	if _, err := parseAlarmAdd(nil, testCfg); err == nil {
		t.Error("expected error with no time")
	}
}

func TestParseDays(t *testing.T) {
	days, err := parseDays("Mon, tue,WED")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"mon", "tue", "wed"}
	for i, d := range want {
		if days[i] != d {
			t.Errorf("days[%d] = %q, want %q", i, days[i], d)
		}
	}

	if _, err := parseDays("mon,someday"); err == nil {
		t.Error("expected error for unknown weekday")
	}
}

func TestTaskLine(t *testing.T) {
	title := "water the plants"
	base := store.Task{ID: "t1", Title: title}

	if line := taskLine(base); !strings.Contains(line, "[ ]") {
		t.Errorf("open task line = %q", line)
	}

	done := base
	done.Completed = true
	if line := taskLine(done); !strings.Contains(line, "[x]") || !strings.Contains(line, "awaiting confirmation") {
		t.Errorf("completed task line = %q", line)
	}

	confirmed := done
	now := time.Now()
	confirmed.ConfirmedAt = &now
	if line := taskLine(confirmed); !strings.Contains(line, "[*]") || !strings.Contains(line, "confirmed") {
		t.Errorf("confirmed task line = %q", line)
	}
}

func TestAlarmLine(t *testing.T) {
	label := "gym"
	a := store.Alarm{
		ID:         "a1",
		Time:       "06:30",
		Active:     true,
		Sound:      "energetic",
		RepeatDays: []string{"mon", "wed"},
		Label:      &label,
	}
	line := alarmLine(a)
	for _, want := range []string{"a1", "on", "06:30", "energetic", "mon,wed", "gym"} {
		if !strings.Contains(line, want) {
			t.Errorf("alarm line %q missing %q", line, want)
		}
	}

	a.Active = false
	if line := alarmLine(a); !strings.Contains(line, "off") {
		t.Errorf("inactive alarm line = %q", line)
	}
}

func TestSnapshot(t *testing.T) {
	label := "wake up"
	row := store.Alarm{
		ID:         "a1",
		PairID:     "p1",
		Time:       "07:30",
		Label:      &label,
		Active:     true,
		RepeatDays: []string{"sat", "sun"},
		Sound:      "gentle",
		CreatedBy:  "u1",
	}
	got := snapshot(row)
	if got.ID != "a1" || got.Time != "07:30" || !got.Active || got.Sound != "gentle" {
		t.Errorf("snapshot = %+v", got)
	}
	if got.Label == nil || *got.Label != "wake up" {
		t.Errorf("label = %v", got.Label)
	}
	if len(got.RepeatDays) != 2 {
		t.Errorf("repeat days = %v", got.RepeatDays)
	}
}

func TestFeedClientID(t *testing.T) {
	cfg := config.Config{Feed: config.Feed{ClientID: "custom"}}
	if got := feedClientID(cfg); got != "custom" {
		t.Errorf("feedClientID = %q, want custom", got)
	}

	cfg = config.Config{UserID: "u1"}
	got := feedClientID(cfg)
	if !strings.HasPrefix(got, "duos-u1-") {
		t.Errorf("feedClientID = %q, want duos-u1-<host>", got)
	}
}
