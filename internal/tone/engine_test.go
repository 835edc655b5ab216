package tone

import (
	"errors"
	"io"
	"testing"
	"time"
)

// fakeBackend records every playback it starts and whether each was closed.
type fakeBackend struct {
	started []*fakeHandle
	err     error
}

type fakeHandle struct {
	pcm    []byte
	closed int
}

func (h *fakeHandle) Close() error {
	h.closed++
	return nil
}

func (b *fakeBackend) Start(pcm []byte) (io.Closer, error) {
	if b.err != nil {
		return nil, b.err
	}
	h := &fakeHandle{pcm: pcm}
	b.started = append(b.started, h)
	return h, nil
}

func (b *fakeBackend) open() []*fakeHandle {
	var out []*fakeHandle
	for _, h := range b.started {
		if h.closed == 0 {
			out = append(out, h)
		}
	}
	return out
}

func testEngine(volume float64) (*Engine, *fakeBackend) {
	b := &fakeBackend{}
	return newEngine(b, volume), b
}

func TestPlayStartsOneSession(t *testing.T) {
	e, b := testEngine(1)
	if err := e.Play("classic", 0); err != nil {
		t.Fatal(err)
	}
	if got := b.open(); len(got) != 1 {
		t.Fatalf("%d open sessions, want 1", len(got))
	}
	// Zero duration plays the default window.
	wantLen := int(float64(SampleRate)*DefaultDuration.Seconds()) * 4
	if got := len(b.started[0].pcm); got != wantLen {
		t.Errorf("pcm length = %d, want %d", got, wantLen)
	}
}

func TestPlayPreemptsPrevious(t *testing.T) {
	e, b := testEngine(1)
	if err := e.Play("classic", 3*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := e.Play("nature", 1500*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	open := b.open()
	if len(open) != 1 {
		t.Fatalf("%d open sessions after preemption, want 1", len(open))
	}
	if open[0] != b.started[1] {
		t.Error("surviving session is not the newest")
	}
	if b.started[0].closed != 1 {
		t.Errorf("first session closed %d times, want 1", b.started[0].closed)
	}
}

func TestStopIdempotent(t *testing.T) {
	e, b := testEngine(1)

	// Nothing playing: a defined no-op.
	e.Stop()

	if err := e.Play("gentle", time.Second); err != nil {
		t.Fatal(err)
	}
	e.Stop()
	e.Stop()

	if got := b.open(); len(got) != 0 {
		t.Errorf("%d open sessions after Stop", len(got))
	}
	if b.started[0].closed != 1 {
		t.Errorf("session closed %d times, want exactly 1", b.started[0].closed)
	}
	if e.IsPlaying() {
		t.Error("IsPlaying after Stop")
	}
}

func TestIsPlayingWindow(t *testing.T) {
	e, _ := testEngine(1)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	e.now = func() time.Time { return now }

	if e.IsPlaying() {
		t.Error("IsPlaying before any Play")
	}
	if err := e.Play("energetic", 3*time.Second); err != nil {
		t.Fatal(err)
	}
	if !e.IsPlaying() {
		t.Error("not playing immediately after Play")
	}

	now = base.Add(2999 * time.Millisecond)
	if !e.IsPlaying() {
		t.Error("window closed before the duration elapsed")
	}
	now = base.Add(3 * time.Second)
	if e.IsPlaying() {
		t.Error("window still open after the duration elapsed")
	}
}

func TestPreviewUsesShortWindow(t *testing.T) {
	e, b := testEngine(1)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	e.now = func() time.Time { return now }

	if err := e.Preview("nature"); err != nil {
		t.Fatal(err)
	}
	wantLen := int(float64(SampleRate)*PreviewDuration.Seconds()) * 4
	if got := len(b.started[0].pcm); got != wantLen {
		t.Errorf("preview pcm length = %d, want %d", got, wantLen)
	}
	now = base.Add(PreviewDuration)
	if e.IsPlaying() {
		t.Error("preview window still open after 1.5s")
	}
}

func TestPlayBackendFailure(t *testing.T) {
	b := &fakeBackend{err: errors.New("no audio device")}
	e := newEngine(b, 1)
	if err := e.Play("classic", time.Second); err == nil {
		t.Fatal("expected error from backend")
	}
	if e.IsPlaying() {
		t.Error("IsPlaying after failed Play")
	}
}

func TestVolumeClamped(t *testing.T) {
	if e := newEngine(&fakeBackend{}, 1.7); e.volume != 1 {
		t.Errorf("volume = %v, want clamped to 1", e.volume)
	}
	if e := newEngine(&fakeBackend{}, -0.3); e.volume != 0 {
		t.Errorf("volume = %v, want clamped to 0", e.volume)
	}
}
