package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/duos-app/duos/internal/eventlog"
	"github.com/duos-app/duos/internal/silent"
	"github.com/duos-app/duos/internal/streak"
)

func historyCmd(args []string) {
	n := 20
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			fatalf("usage: duos history [n]")
		}
		n = v
	} else if len(args) > 1 {
		fatalf("usage: duos history [n]")
	}

	entries := eventlog.Recent(n)
	if len(entries) == 0 {
		fmt.Println("No deliveries recorded yet.")
		return
	}
	for _, e := range entries {
		mark := "rang"
		if e.Kind == "quiet" {
			mark = "quiet"
		}
		fmt.Printf("%s  %-5s  %-9s %s\n",
			e.At.Local().Format("Jan 2 15:04"), mark, e.Sound, e.Body)
	}
}

func silentCmd(args []string) {
	if len(args) < 1 {
		fatalf("expected a silent subcommand (on, off, status)")
	}
	switch args[0] {
	case "on":
		minutes := 60
		if len(args) == 2 {
			m, err := strconv.Atoi(args[1])
			if err != nil || m < 1 {
				fatalf("minutes must be a positive number")
			}
			minutes = m
		}
		silent.Enable(time.Duration(minutes) * time.Minute)
		fmt.Printf("Silent for %d minutes; alarms stay armed but won't ring here\n", minutes)

	case "off":
		silent.Disable()
		fmt.Println("Silent mode off")

	case "status":
		if until, ok := silent.SilentUntil(); ok {
			fmt.Printf("Silent until %s\n", until.Local().Format("15:04"))
		} else {
			fmt.Println("Not silent")
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown silent subcommand %q\n", args[0])
		os.Exit(1)
	}
}

func streakCmd(configPath string) {
	cfg := loadConfig(configPath)
	me := requireUser(cfg)

	st, cleanup := openStore(cfg)
	defer cleanup()

	pairs, err := st.PairsForUser(me)
	if err != nil {
		fatalf("%v", err)
	}
	pairIDs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		pairIDs = append(pairIDs, p.ID)
	}

	times, err := st.ConfirmedTimes(pairIDs, me)
	if err != nil {
		fatalf("%v", err)
	}

	days := streak.Days(time.Now(), times)
	switch days {
	case 0:
		fmt.Println("No streak yet. Confirm a task today to start one.")
	case 1:
		fmt.Println("1 day streak")
	default:
		fmt.Printf("%d day streak\n", days)
	}
	if len(times) > 0 {
		fmt.Printf("%d tasks confirmed in total\n", len(times))
	}
}
