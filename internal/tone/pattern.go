package tone

import (
	"math/rand"
	"time"
)

const SampleRate = 44100

// Wave selects the oscillator shape for a burst.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
)

// Ramp is one time-tagged target on an automation curve. The curve holds the
// previous value until At, approached linearly, or exponentially when Exp is
// set (matching exponential ramps in audio APIs: multiplicative, so it never
// reaches zero).
type Ramp struct {
	At    float64 // seconds from pattern start
	Value float64
	Exp   bool
}

// Burst is one scheduled oscillator: a waveform with a frequency curve and a
// gain envelope, audible between Start and Stop on the pattern clock.
type Burst struct {
	Wave  Wave
	Start float64 // seconds from pattern start
	Stop  float64
	Freq  []Ramp // Hz
	Gain  []Ramp // 0..1
}

// Keys lists the pattern names, in menu order.
var Keys = []string{"gentle", "energetic", "classic", "nature"}

// Pattern builds the burst schedule for the named pattern over the total
// duration. Unrecognized keys fall back to classic. rnd drives the nature
// pattern's chirp pitches; nil uses the shared source.
func Pattern(key string, total time.Duration, rnd *rand.Rand) []Burst {
	secs := total.Seconds()
	switch key {
	case "gentle":
		return gentle(secs)
	case "energetic":
		return energetic(secs)
	case "nature":
		return nature(secs, rnd)
	default:
		return classic(secs)
	}
}

// gentle is a C5/E5/G5 chord with staggered entrances and a slow swell that
// fades out by the end.
func gentle(total float64) []Burst {
	freqs := []float64{523.25, 659.25, 783.99}
	bursts := make([]Burst, 0, len(freqs))
	for i, f := range freqs {
		bursts = append(bursts, Burst{
			Wave:  WaveSine,
			Start: float64(i) * 0.15,
			Stop:  total,
			Freq:  []Ramp{{At: 0, Value: f}},
			Gain: []Ramp{
				{At: 0, Value: 0},
				{At: 0.5 + float64(i)*0.2, Value: 0.15},
				{At: total, Value: 0},
			},
		})
	}
	return bursts
}

// energetic is a train of short square beeps alternating between 880 and
// 1100 Hz.
func energetic(total float64) []Burst {
	const (
		beepDuration = 0.1
		beepInterval = 0.15
	)
	n := int(total / beepInterval)
	bursts := make([]Burst, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * beepInterval
		bursts = append(bursts, Burst{
			Wave:  WaveSquare,
			Start: start,
			Stop:  start + beepDuration + 0.01,
			Freq:  []Ramp{{At: start, Value: 880 + float64(i%2)*220}},
			Gain: []Ramp{
				{At: start, Value: 0},
				{At: start + 0.02, Value: 0.12},
				{At: start + beepDuration, Value: 0},
			},
		})
	}
	return bursts
}

// classic is a bell ring: paired 1200 and 1400 Hz sines with a sharp attack
// and exponential decay, repeating every 0.12s.
func classic(total float64) []Burst {
	const (
		ringDuration = 0.08
		ringInterval = 0.12
	)
	n := int(total / ringInterval)
	bursts := make([]Burst, 0, n*2)
	for i := 0; i < n; i++ {
		start := float64(i) * ringInterval
		gain := []Ramp{
			{At: start, Value: 0},
			{At: start + 0.01, Value: 0.15},
			{At: start + ringDuration, Value: 0.001, Exp: true},
		}
		for _, f := range []float64{1200, 1400} {
			bursts = append(bursts, Burst{
				Wave:  WaveSine,
				Start: start,
				Stop:  start + ringDuration + 0.01,
				Freq:  []Ramp{{At: start, Value: f}},
				Gain:  gain,
			})
		}
	}
	return bursts
}

// nature is six bird-like chirps spread across the duration: a sine sweep
// from a randomized base pitch up 1.5x, then down to 0.8x.
func nature(total float64, rnd *rand.Rand) []Burst {
	const chirps = 6
	interval := total / chirps
	bursts := make([]Burst, 0, chirps)
	for i := 0; i < chirps; i++ {
		start := float64(i) * interval
		base := 2000 + 500*randFloat(rnd)
		bursts = append(bursts, Burst{
			Wave:  WaveSine,
			Start: start,
			Stop:  start + 0.35,
			Freq: []Ramp{
				{At: start, Value: base},
				{At: start + 0.1, Value: base * 1.5, Exp: true},
				{At: start + 0.2, Value: base * 0.8, Exp: true},
			},
			Gain: []Ramp{
				{At: start, Value: 0},
				{At: start + 0.05, Value: 0.1},
				{At: start + 0.3, Value: 0.001, Exp: true},
			},
		})
	}
	return bursts
}

func randFloat(rnd *rand.Rand) float64 {
	if rnd != nil {
		return rnd.Float64()
	}
	return rand.Float64()
}
