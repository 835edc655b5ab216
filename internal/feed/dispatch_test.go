package feed

import (
	"sync"
	"testing"
	"time"
)

func TestDispatcherPreservesPerRecordOrder(t *testing.T) {
	var mu sync.Mutex
	got := make(map[string][]Op)

	d := NewDispatcher(func(ev Event) {
		mu.Lock()
		got[ev.ID] = append(got[ev.ID], ev.Op)
		mu.Unlock()
	})

	// Interleave rapid toggles of two alarms.
	seq := []Event{
		{ID: "a1", Op: OpCreated},
		{ID: "a2", Op: OpCreated},
		{ID: "a1", Op: OpUpdated},
		{ID: "a2", Op: OpDeleted},
		{ID: "a1", Op: OpUpdated},
		{ID: "a1", Op: OpDeleted},
	}
	for _, ev := range seq {
		d.Dispatch(ev)
	}
	d.Wait()

	wantA1 := []Op{OpCreated, OpUpdated, OpUpdated, OpDeleted}
	if len(got["a1"]) != len(wantA1) {
		t.Fatalf("a1 handled %d events, want %d", len(got["a1"]), len(wantA1))
	}
	for i, op := range wantA1 {
		if got["a1"][i] != op {
			t.Errorf("a1 event %d = %s, want %s", i, got["a1"][i], op)
		}
	}
	if len(got["a2"]) != 2 || got["a2"][0] != OpCreated || got["a2"][1] != OpDeleted {
		t.Errorf("a2 events = %v", got["a2"])
	}
}

func TestDispatcherIndependentRecords(t *testing.T) {
	// A slow handler for one record must not block another record's events.
	release := make(chan struct{})
	fastDone := make(chan struct{})

	d := NewDispatcher(func(ev Event) {
		switch ev.ID {
		case "slow":
			<-release
		case "fast":
			close(fastDone)
		}
	})

	d.Dispatch(Event{ID: "slow", Op: OpUpdated})
	d.Dispatch(Event{ID: "fast", Op: OpUpdated})

	select {
	case <-fastDone:
	case <-time.After(2 * time.Second):
		t.Fatal("fast record blocked behind slow record")
	}
	close(release)
	d.Wait()
}

func TestDispatcherConcurrentDispatch(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := NewDispatcher(func(ev Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids := []string{"a", "b", "c"}
			for j := 0; j < 20; j++ {
				d.Dispatch(Event{ID: ids[(n+j)%3], Op: OpUpdated})
			}
		}(i)
	}
	wg.Wait()
	d.Wait()

	if count != 200 {
		t.Errorf("handled %d events, want 200", count)
	}
}
