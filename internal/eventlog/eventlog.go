// Package eventlog keeps an append-only record of alarm deliveries on this
// device, one JSON object per line. It answers "did my alarm actually ring
// this morning" when the partner claims otherwise.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/duos-app/duos/internal/paths"
)

// Entry is one delivery-loop outcome.
type Entry struct {
	At      time.Time `json:"at"`
	Kind    string    `json:"kind"` // "delivered", "quiet"
	AlarmID string    `json:"alarm_id,omitempty"`
	Body    string    `json:"body,omitempty"`
	Sound   string    `json:"sound,omitempty"`
}

// Append writes the entry to the log. Errors are printed to stderr but never
// returned; logging is best-effort.
func Append(e Entry) {
	appendEntry(logPath(), e)
}

// Recent returns up to n newest entries, newest first. A missing log file
// yields an empty slice.
func Recent(n int) []Entry {
	return recent(logPath(), n)
}

func appendEntry(path string, e Entry) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: marshal: %v\n", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: mkdir: %v\n", err)
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: open: %v\n", err)
		return
	}
	defer f.Close()

	f.Write(append(data, '\n'))
}

func recent(path string, n int) []Entry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var all []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // a torn write at the tail is expected, skip it
		}
		all = append(all, e)
	}

	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	// Newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

func logPath() string {
	return filepath.Join(paths.DataDir(), paths.LogFileName)
}
