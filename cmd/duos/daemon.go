package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/duos-app/duos/internal/alarm"
	"github.com/duos-app/duos/internal/config"
	"github.com/duos-app/duos/internal/eventlog"
	"github.com/duos-app/duos/internal/feed"
	"github.com/duos-app/duos/internal/paths"
	"github.com/duos-app/duos/internal/sched"
	"github.com/duos-app/duos/internal/silent"
	"github.com/duos-app/duos/internal/snooze"
	"github.com/duos-app/duos/internal/store"
	"github.com/duos-app/duos/internal/toast"
	"github.com/duos-app/duos/internal/tone"
	"github.com/duos-app/duos/internal/webhook"
)

// daemonCmd runs the delivery loop: it keeps the scheduler reconciled with
// the alarm table (local rows at startup, change-feed events after) and
// rings/toasts when a registration comes due.
func daemonCmd(configPath string, volume int) {
	cfg := loadConfig(configPath)
	if volume < 0 {
		volume = cfg.Volume
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	engine := tone.NewEngine(float64(volume) / 100)
	defer engine.Stop()
	ringFor := time.Duration(cfg.RingSeconds) * time.Second

	desk := sched.NewDesktop(filepath.Join(paths.DataDir(), paths.PendingFileName), sched.DesktopOptions{
		Show:  showWithWebhook(cfg),
		Ring:  func(sound string) { ring(engine, sound, ringFor) },
		Quiet: quiet,
	})
	mgr := alarm.NewManager(desk, nil)

	if !toast.Available() {
		fmt.Fprintln(os.Stderr, "Warning: no notification display found; alarms will not be delivered")
	}
	if !mgr.RequestPermissions() {
		fmt.Fprintln(os.Stderr, "Warning: notification permission not granted")
	}

	// Startup reconciliation: the local table is the source of truth for
	// whatever happened while the daemon was down.
	pairID := requirePair(cfg)
	alarms, err := st.Alarms(pairID)
	if err != nil {
		fatalf("%v", err)
	}
	for _, a := range alarms {
		if out := mgr.Update(snapshot(a)); !out.OK() {
			fmt.Fprintf(os.Stderr, "Warning: alarm %s: %v (%s)\n", a.ID, out.Err, out.Status)
		}
	}

	// Live updates from the partner arrive on the change feed, serialized
	// per alarm id so the last write wins at the scheduler.
	dispatcher := feed.NewDispatcher(func(ev feed.Event) {
		if out := mgr.HandleEvent(ev); !out.OK() {
			fmt.Fprintf(os.Stderr, "Warning: alarm %s: %v (%s)\n", ev.ID, out.Err, out.Status)
		}
	})

	if cfg.Feed.Broker != "" {
		client, err := feed.Dial(cfg.Feed.Broker, feedClientID(cfg), cfg.Feed.Username, cfg.Feed.Password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: change feed unavailable: %v\n", err)
		} else {
			defer client.Close()
			if err := client.Subscribe(pairID, "alarms", dispatcher.Dispatch); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no feed broker configured; partner changes won't arrive until restart")
	}

	fmt.Printf("duos daemon running (%d alarms, pair %s)\n", len(alarms), pairID)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-done
		close(stop)
	}()

	desk.Run(stop)
	dispatcher.Wait()
}

// snapshot converts an alarm row into the lifecycle manager's view of it.
func snapshot(a store.Alarm) alarm.Alarm {
	return alarm.Alarm{
		ID:         a.ID,
		Time:       a.Time,
		Label:      a.Label,
		Active:     a.Active,
		RepeatDays: a.RepeatDays,
		Sound:      a.Sound,
	}
}

// quiet suppresses delivery while silent mode or the alarm's snooze window
// is active. The registration itself stays armed. Called once per due
// registration, so it doubles as the history tap for both outcomes.
func quiet(n sched.Notification) bool {
	id := n.Extra["alarm_id"]
	if silent.IsSilent() || (id != "" && snooze.Active(id)) {
		eventlog.Append(eventlog.Entry{Kind: "quiet", AlarmID: id, Body: n.Body, Sound: n.Sound})
		return true
	}
	eventlog.Append(eventlog.Entry{Kind: "delivered", AlarmID: id, Body: n.Body, Sound: n.Sound})
	return false
}

// showWithWebhook wraps the desktop toast with the optional partner
// webhook, so a fired alarm can reach chat tools as well.
func showWithWebhook(cfg config.Config) func(title, body string) error {
	return func(title, body string) error {
		notifyWebhook(cfg, webhook.Event{Kind: "alarm.fired", Label: body, At: time.Now()})
		return toast.Show(title, body)
	}
}

func ring(engine *tone.Engine, sound string, d time.Duration) {
	if err := engine.Play(sound, d); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
