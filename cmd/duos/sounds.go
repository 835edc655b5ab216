package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/duos-app/duos/internal/tone"
)

var soundDescriptions = map[string]string{
	"gentle":    "soft rising chord, like a morning chime",
	"energetic": "fast pulsing beeps",
	"classic":   "traditional alarm bell",
	"nature":    "bird-like chirping",
}

func soundsCmd(args []string, configPath string, volume int) {
	if len(args) < 1 {
		fatalf("expected a sounds subcommand (list, play, preview, export)")
	}
	cfg := loadConfig(configPath)

	// Volume priority: CLI --volume > config volume > 100
	if volume < 0 {
		volume = cfg.Volume
	}

	switch args[0] {
	case "list":
		for _, key := range tone.Keys {
			mark := " "
			if key == cfg.Sound {
				mark = "*"
			}
			fmt.Printf("%s %-10s %s\n", mark, key, soundDescriptions[key])
		}

	case "play", "preview":
		rest := args[1:]
		d := tone.DefaultDuration
		if args[0] == "preview" {
			d = tone.PreviewDuration
		}

		var key string
		for i := 0; i < len(rest); i++ {
			if rest[i] == "--seconds" {
				if i+1 >= len(rest) {
					fatalf("--seconds requires a value")
				}
				secs, err := strconv.Atoi(rest[i+1])
				if err != nil || secs < 1 {
					fatalf("seconds must be a positive number")
				}
				d = time.Duration(secs) * time.Second
				i++
				continue
			}
			key = rest[i]
		}
		if key == "" {
			fatalf("usage: duos sounds %s <key>", args[0])
		}

		engine := tone.NewEngine(float64(volume) / 100)
		if err := engine.Play(key, d); err != nil {
			fatalf("%v", err)
		}
		// Playback is fire-and-forget; hold the process open for it.
		time.Sleep(d)
		engine.Stop()

	case "export":
		if len(args) < 3 {
			fatalf("usage: duos sounds export <key> <file.wav> [--seconds <n>]")
		}
		key, path := args[1], args[2]
		d := tone.DefaultDuration
		for i := 3; i < len(args); i++ {
			if args[i] == "--seconds" {
				if i+1 >= len(args) {
					fatalf("--seconds requires a value")
				}
				secs, err := strconv.Atoi(args[i+1])
				if err != nil || secs < 1 {
					fatalf("seconds must be a positive number")
				}
				d = time.Duration(secs) * time.Second
				i++
			}
		}

		pcm := tone.Render(tone.Pattern(key, d, nil), d, float64(volume)/100)
		if err := os.WriteFile(path, tone.EncodeWAV(pcm), 0644); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote %s (%s, %v)\n", path, key, d)

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown sounds subcommand %q\n", args[0])
		os.Exit(1)
	}
}
