package tone

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	// DefaultDuration is how long a full alarm ring plays.
	DefaultDuration = 3 * time.Second
	// PreviewDuration is the shortened duration used for UI audition.
	PreviewDuration = 1500 * time.Millisecond
)

// backend starts playback of rendered PCM and hands back a handle that cuts
// it short when closed.
type backend interface {
	Start(pcm []byte) (io.Closer, error)
}

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

// otoBackend plays through a process-wide audio context, created lazily on
// first use.
type otoBackend struct{}

func (otoBackend) Start(pcm []byte) (io.Closer, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-readyChan
		}
	})
	if otoInitErr != nil {
		return nil, fmt.Errorf("tone: initialize audio: %w", otoInitErr)
	}

	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	return player, nil
}

// Engine plays the synthesized alarm patterns. At most one playback is
// audible at a time: starting a new one tears down the previous first, and
// the newest request always preempts.
type Engine struct {
	mu      sync.Mutex
	backend backend
	volume  float64
	current io.Closer
	until   time.Time
	now     func() time.Time
}

// NewEngine returns an engine playing through the shared audio context.
// volume is clamped to [0, 1].
func NewEngine(volume float64) *Engine {
	return newEngine(otoBackend{}, volume)
}

func newEngine(b backend, volume float64) *Engine {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	return &Engine{backend: b, volume: volume, now: time.Now}
}

// Play stops any in-progress playback, then starts the named pattern for the
// given duration. Unrecognized keys fall back to classic; a non-positive
// duration plays for DefaultDuration. Fire-and-forget: Play returns as soon
// as the backend has the samples.
func (e *Engine) Play(key string, d time.Duration) error {
	if d <= 0 {
		d = DefaultDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()

	pcm := Render(Pattern(key, d, nil), d, e.volume)
	handle, err := e.backend.Start(pcm)
	if err != nil {
		return fmt.Errorf("tone: play %s: %w", key, err)
	}
	e.current = handle
	e.until = e.now().Add(d)
	return nil
}

// Preview plays a shortened rendition for sound selection.
func (e *Engine) Preview(key string) error {
	return e.Play(key, PreviewDuration)
}

// Stop cuts short any current playback. Safe to call when nothing is
// playing, and again after playback already ended.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.current != nil {
		// Closing an already-finished player is expected; nothing to do
		// about a failure here either way.
		e.current.Close()
		e.current = nil
	}
	e.until = time.Time{}
}

// IsPlaying reports whether a playback window is open. It is time-bounded,
// cleared once the requested duration elapses, and is an approximation: it
// tracks the window, not the device's actual output.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil && e.now().Before(e.until)
}
