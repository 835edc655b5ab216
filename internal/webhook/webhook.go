// Package webhook posts alarm and task events to a partner-configured URL,
// so a pair can bridge duos into chat tools or home automation.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/duos-app/duos/internal/httputil"
)

// Event is the JSON payload posted to the webhook.
type Event struct {
	Kind    string    `json:"kind"` // "alarm.fired", "alarm.snoozed", "task.confirmed"
	AlarmID string    `json:"alarm_id,omitempty"`
	TaskID  string    `json:"task_id,omitempty"`
	Label   string    `json:"label,omitempty"`
	At      time.Time `json:"at"`
}

// Send posts the event to the given URL as JSON. Custom headers are applied
// after the default Content-Type, so callers can override it. Header values
// are expanded with os.ExpandEnv to support $VAR secrets.
func Send(url string, ev Event, headers map[string]string) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := httputil.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "webhook")
}
