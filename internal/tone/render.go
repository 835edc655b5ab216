package tone

import (
	"math"
	"time"
)

// Render mixes a burst schedule down to stereo 16-bit signed little-endian
// PCM at 44100 Hz. volume is a multiplier from 0.0 (silent) to 1.0.
func Render(bursts []Burst, total time.Duration, volume float64) []byte {
	frames := int(float64(SampleRate) * total.Seconds())
	if frames <= 0 {
		return nil
	}
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}

	mix := make([]float64, frames)
	for _, b := range bursts {
		renderBurst(mix, b)
	}

	// 4 bytes per frame (2 channels x 2 bytes per sample).
	pcm := make([]byte, frames*4)
	for i, v := range mix {
		s := clamp16(v * volume)
		lo, hi := byte(s), byte(s>>8)
		pcm[i*4], pcm[i*4+1] = lo, hi // L
		pcm[i*4+2], pcm[i*4+3] = lo, hi // R
	}
	return pcm
}

// renderBurst adds one burst's samples into the mix buffer. Frequency sweeps
// need phase accumulation: advancing phase by the instantaneous frequency
// each sample keeps the waveform continuous through the sweep.
func renderBurst(mix []float64, b Burst) {
	start := int(b.Start * SampleRate)
	stop := int(b.Stop * SampleRate)
	if start < 0 {
		start = 0
	}
	if stop > len(mix) {
		stop = len(mix)
	}

	var phase float64
	for i := start; i < stop; i++ {
		t := float64(i) / SampleRate
		phase += 2 * math.Pi * curveAt(b.Freq, t) / SampleRate

		var sample float64
		switch b.Wave {
		case WaveSquare:
			if math.Sin(phase) >= 0 {
				sample = 1
			} else {
				sample = -1
			}
		default:
			sample = math.Sin(phase)
		}
		mix[i] += sample * curveAt(b.Gain, t)
	}
}

// curveAt evaluates an automation curve at time t. Before the first point the
// curve holds that point's value, after the last it holds the last; between
// points it ramps linearly, or exponentially when the target point says so.
func curveAt(points []Ramp, t float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if t <= points[0].At {
		return points[0].Value
	}
	for i := 1; i < len(points); i++ {
		p := points[i]
		if t > p.At {
			continue
		}
		prev := points[i-1]
		span := p.At - prev.At
		if span <= 0 {
			return p.Value
		}
		frac := (t - prev.At) / span
		if p.Exp && prev.Value > 0 && p.Value > 0 {
			return prev.Value * math.Pow(p.Value/prev.Value, frac)
		}
		return prev.Value + (p.Value-prev.Value)*frac
	}
	return points[len(points)-1].Value
}

// clamp16 converts a float64 in [-1, 1] to int16, clamping to avoid overflow.
func clamp16(f float64) int16 {
	s := f * 32767.0
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
