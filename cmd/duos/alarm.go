package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/duos-app/duos/internal/alarm"
	"github.com/duos-app/duos/internal/config"
	"github.com/duos-app/duos/internal/snooze"
	"github.com/duos-app/duos/internal/store"
	"github.com/duos-app/duos/internal/webhook"
)

const defaultSnoozeMinutes = 9

func alarmCmd(args []string, configPath string) {
	if len(args) < 1 {
		fatalf("expected an alarm subcommand (add, list, on, off, snooze, wake, rm)")
	}
	cfg := loadConfig(configPath)

	// Snooze state is device-local; no store needed.
	switch args[0] {
	case "snooze":
		snoozeAlarm(args[1:], cfg)
		return
	case "wake":
		if len(args) != 2 {
			fatalf("usage: duos alarm wake <id>")
		}
		snooze.Clear(args[1])
		fmt.Printf("Alarm %s will ring again\n", args[1])
		return
	}

	st, cleanup := openStore(cfg)
	defer cleanup()

	switch args[0] {
	case "add":
		a, err := parseAlarmAdd(args[1:], cfg)
		if err != nil {
			fatalf("%v", err)
		}
		created, err := st.CreateAlarm(a)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Added alarm %s at %s (%s)\n", created.ID, created.Time, created.Sound)

	case "list":
		alarms, err := st.Alarms(requirePair(cfg))
		if err != nil {
			fatalf("%v", err)
		}
		if len(alarms) == 0 {
			fmt.Println("No alarms yet.")
			return
		}
		for _, a := range alarms {
			fmt.Println(alarmLine(a))
		}

	case "on", "off":
		if len(args) != 2 {
			fatalf("usage: duos alarm %s <id>", args[0])
		}
		a, err := st.SetAlarmActive(args[1], args[0] == "on")
		if err != nil {
			fatalf("%v", err)
		}
		state := "off"
		if a.Active {
			state = "on"
		}
		fmt.Printf("Alarm %s at %s is now %s\n", a.ID, a.Time, state)

	case "rm":
		if len(args) != 2 {
			fatalf("usage: duos alarm rm <id>")
		}
		if err := st.DeleteAlarm(args[1]); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Deleted alarm %s\n", args[1])

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown alarm subcommand %q\n", args[0])
		os.Exit(1)
	}
}

// parseAlarmAdd builds the alarm row for "duos alarm add <HH:MM> [label]
// [--sound key] [--days mon,tue] [--off]".
func parseAlarmAdd(args []string, cfg config.Config) (store.Alarm, error) {
	a := store.Alarm{
		PairID:    requirePair(cfg),
		Active:    true,
		Sound:     cfg.Sound,
		CreatedBy: requireUser(cfg),
	}

	var label []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--sound":
			if i+1 >= len(args) {
				return store.Alarm{}, fmt.Errorf("--sound requires a value (%s)", strings.Join(alarm.SoundKeys, ", "))
			}
			a.Sound = alarm.NormalizeSound(args[i+1])
			i++
		case "--days":
			if i+1 >= len(args) {
				return store.Alarm{}, fmt.Errorf("--days requires a comma-separated list (mon..sun)")
			}
			days, err := parseDays(args[i+1])
			if err != nil {
				return store.Alarm{}, err
			}
			a.RepeatDays = days
			i++
		case "--off":
			a.Active = false
		default:
			if a.Time == "" {
				a.Time = args[i]
				continue
			}
			label = append(label, args[i])
		}
	}

	if a.Time == "" {
		return store.Alarm{}, fmt.Errorf("usage: duos alarm add <HH:MM> [label] [--sound key] [--days mon,tue] [--off]")
	}
	if _, _, _, err := alarm.ParseTimeOfDay(a.Time); err != nil {
		return store.Alarm{}, err
	}
	if len(label) > 0 {
		l := strings.Join(label, " ")
		a.Label = &l
	}
	return a, nil
}

var validDays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

func parseDays(s string) ([]string, error) {
	var days []string
	for _, d := range strings.Split(s, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if !validDays[d] {
			return nil, fmt.Errorf("unknown weekday %q (use mon..sun)", d)
		}
		days = append(days, d)
	}
	return days, nil
}

func alarmLine(a store.Alarm) string {
	state := "off"
	if a.Active {
		state = "on "
	}
	line := fmt.Sprintf("%s %s  %s  %-9s", a.ID, state, a.Time, a.Sound)
	if len(a.RepeatDays) > 0 {
		line += "  " + strings.Join(a.RepeatDays, ",")
	}
	if a.Label != nil && *a.Label != "" {
		line += "  " + *a.Label
	}
	if until, ok := snooze.Until(a.ID); ok {
		line += fmt.Sprintf("  (snoozed until %s)", until.Local().Format("15:04"))
	}
	return line
}

func snoozeAlarm(args []string, cfg config.Config) {
	if len(args) < 1 || len(args) > 2 {
		fatalf("usage: duos alarm snooze <id> [minutes]")
	}
	minutes := defaultSnoozeMinutes
	if len(args) == 2 {
		m, err := strconv.Atoi(args[1])
		if err != nil || m < 1 {
			fatalf("minutes must be a positive number")
		}
		minutes = m
	}

	d := time.Duration(minutes) * time.Minute
	snooze.Snooze(args[0], d)
	fmt.Printf("Alarm %s snoozed for %d minutes\n", args[0], minutes)

	notifyWebhook(cfg, webhook.Event{
		Kind:    "alarm.snoozed",
		AlarmID: args[0],
		At:      time.Now(),
	})
}
