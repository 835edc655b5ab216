package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/duos-app/duos/internal/config"
	"github.com/duos-app/duos/internal/feed"
	"github.com/duos-app/duos/internal/store"
	"github.com/duos-app/duos/internal/webhook"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	volume := -1
	configPath := ""

	// Parse flags
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--volume", "-v":
			if i+1 < len(args) {
				v, err := strconv.Atoi(args[i+1])
				if err != nil || v < 0 || v > 100 {
					fmt.Fprintf(os.Stderr, "Error: volume must be a number between 0 and 100\n")
					os.Exit(1)
				}
				volume = v
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --volume requires a value (0-100)\n")
				os.Exit(1)
			}
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --config requires a file path\n")
				os.Exit(1)
			}
		default:
			filtered = append(filtered, args[i])
		}
	}

	if len(filtered) < 1 {
		printUsage()
		os.Exit(1)
	}

	cmd, rest := filtered[0], filtered[1:]
	switch cmd {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "pair":
		pairCmd(rest, configPath)
	case "task":
		taskCmd(rest, configPath)
	case "alarm":
		alarmCmd(rest, configPath)
	case "sounds":
		soundsCmd(rest, configPath, volume)
	case "silent":
		silentCmd(rest)
	case "streak":
		streakCmd(configPath)
	case "history":
		historyCmd(rest)
	case "daemon":
		daemonCmd(configPath, volume)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		fmt.Fprintf(os.Stderr, "Run 'duos help' for usage.\n")
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadConfig(configPath string) config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatalf("%v", err)
	}
	return cfg
}

// openStore opens the local database and, when a broker is configured,
// attaches the change feed so local mutations reach the partner. A broker
// that is down degrades to local-only with a warning.
func openStore(cfg config.Config) (*store.Store, func()) {
	st, err := store.New(cfg.DBPath)
	if err != nil {
		fatalf("%v", err)
	}

	cleanup := func() { st.Close() }
	if cfg.Feed.Broker != "" {
		client, err := feed.Dial(cfg.Feed.Broker, feedClientID(cfg), cfg.Feed.Username, cfg.Feed.Password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: change feed unavailable: %v\n", err)
		} else {
			st.SetPublisher(client)
			cleanup = func() {
				st.Close()
				client.Close()
			}
		}
	}
	return st, cleanup
}

func feedClientID(cfg config.Config) string {
	if cfg.Feed.ClientID != "" {
		return cfg.Feed.ClientID
	}
	host, err := os.Hostname()
	if err != nil {
		host = "device"
	}
	return "duos-" + cfg.UserID + "-" + host
}

// notifyWebhook posts an event to the configured partner webhook. Best
// effort: a missing URL is a no-op and failures only warn.
func notifyWebhook(cfg config.Config, ev webhook.Event) {
	if cfg.Webhook.URL == "" {
		return
	}
	if err := webhook.Send(cfg.Webhook.URL, ev, cfg.Webhook.Headers); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func requireUser(cfg config.Config) string {
	if cfg.UserID == "" {
		fatalf("user_id not set in config; run 'duos pair signup <username>' and add the printed id")
	}
	return cfg.UserID
}

func requirePair(cfg config.Config) string {
	if cfg.PairID == "" {
		fatalf("pair_id not set in config; run 'duos pair invite <username>' and add the printed id")
	}
	return cfg.PairID
}

func printVersion() {
	fmt.Printf("duos %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("duos %s - Shared alarms and tasks for two\n", version)
	fmt.Println(`
Usage:
  duos [options] <command> [args]

Options:
  --volume, -v <0-100>   Override playback volume (default: config or 100)
  --config, -c <path>    Path to duos-config.json

Commands:
  pair signup <username>        Create your profile
  pair invite <username>        Invite a partner by username
  pair accept <pair-id>         Accept a pending invite
  pair list                     List your pairs
  task add <title>              Add a shared task (--desc, --for <username>)
  task list                     List the pair's tasks
  task done <id>                Mark a task completed
  task confirm <id>             Confirm your partner's completion
  task comment <id> <text>      Comment on a task
  task comments <id>            Show a task's comments
  task rm <id>                  Delete a task
  alarm add <HH:MM> [label]     Add an alarm (--sound, --days, --off)
  alarm list                    List the pair's alarms
  alarm on|off <id>             Toggle an alarm
  alarm snooze <id> [minutes]   Snooze a ringing alarm (default 9)
  alarm wake <id>               Clear an alarm's snooze
  alarm rm <id>                 Delete an alarm
  sounds list                   List alarm sounds
  sounds play <key>             Play a sound (--seconds <n>)
  sounds preview <key>          Short preview of a sound
  sounds export <key> <file>    Write a sound to a WAV file
  silent on [minutes]           Silence alarm delivery (default 60)
  silent off|status             End or inspect silent mode
  streak                        Show your confirmed-task streak
  history [n]                   Show recent alarm deliveries (default 20)
  daemon                        Run the alarm delivery loop
  version, -V                   Show version and build date
  help, -h, --help              Show this help message

Config resolution:
  1. --config <path>                 (explicit)
  2. duos-config.json next to binary (portable)
  3. ~/.config/duos/duos-config.json (user default)`)
}
