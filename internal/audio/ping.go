// Package audio plays the radar ping that marks each completed revolution.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/radar-sweep/internal/config"
)

const (
	tapRingSize = 4096
	// decayPerSecond shapes the ping envelope: exp(-decay*t).
	decayPerSecond = 30.0
)

// Pinger mixes ping tones into a single stream that plays for the life of
// the program. The stream is silent between pings.
type Pinger struct {
	rate   beep.SampleRate
	cfg    config.AudioConfig
	mixer  *beep.Mixer
	tap    *levelTap
	volume *effects.Volume
}

// newPinger builds the stream chain without touching the audio device:
// mixer -> tap -> volume.
func newPinger(cfg config.AudioConfig) *Pinger {
	mixer := &beep.Mixer{}
	tap := newLevelTap(mixer, tapRingSize)
	return &Pinger{
		rate:  beep.SampleRate(cfg.SampleRate),
		cfg:   cfg,
		mixer: mixer,
		tap:   tap,
		volume: &effects.Volume{
			Streamer: tap,
			Base:     2,
			Volume:   cfg.Volume,
		},
	}
}

// NewPinger initialises the speaker and starts the (silent) ping stream.
func NewPinger(cfg config.AudioConfig) (*Pinger, error) {
	p := newPinger(cfg)
	bufferSize := p.rate.N(time.Second / 20)
	if err := speaker.Init(p.rate, bufferSize); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}
	speaker.Play(p.volume)
	return p, nil
}

// Ping starts one tone. Overlapping pings mix.
func (p *Pinger) Ping() {
	speaker.Lock()
	p.mixer.Add(tone(p.rate, p.cfg.Frequency, p.cfg.Duration))
	speaker.Unlock()
}

// SetMuted silences output without stopping the stream, so Level keeps
// following pings.
func (p *Pinger) SetMuted(muted bool) {
	speaker.Lock()
	p.volume.Silent = muted
	speaker.Unlock()
}

// Muted reports the current mute state.
func (p *Pinger) Muted() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.volume.Silent
}

// Level returns the recent peak amplitude of the ping stream in [0, 1].
func (p *Pinger) Level() float64 {
	return math.Min(p.tap.peak(p.rate.N(time.Second/60)), 1)
}

// Close stops playback.
func (p *Pinger) Close() {
	speaker.Clear()
}

// tone returns a sine at freq Hz lasting d, with an exponential decay
// envelope.
func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			t := float64(pos) / float64(sr)
			v := math.Sin(2*math.Pi*freq*t) * math.Exp(-decayPerSecond*t)
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}
