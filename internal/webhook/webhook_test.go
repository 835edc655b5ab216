package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSendSuccess(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	ev := Event{
		Kind:    "alarm.fired",
		AlarmID: "a1",
		Label:   "morning run",
		At:      time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC),
	}
	if err := Send(srv.URL, ev, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", gotContentType)
	}

	var got Event
	if err := json.Unmarshal(gotBody, &got); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if got.Kind != "alarm.fired" || got.AlarmID != "a1" || got.Label != "morning run" {
		t.Errorf("payload = %+v", got)
	}
	if !got.At.Equal(ev.At) {
		t.Errorf("At = %v, want %v", got.At, ev.At)
	}
}

func TestSendCustomHeaders(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret123")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	headers := map[string]string{"Authorization": "Bearer $TEST_WEBHOOK_TOKEN"}
	if err := Send(srv.URL, Event{Kind: "task.confirmed"}, headers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret123")
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		io.WriteString(w, "internal server error")
	}))
	defer srv.Close()

	err := Send(srv.URL, Event{Kind: "alarm.fired"}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should contain status code 500: %v", err)
	}
	if !strings.Contains(err.Error(), "internal server error") {
		t.Errorf("error should contain body snippet: %v", err)
	}
}
