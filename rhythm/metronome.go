package rhythm

import (
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Metronome keeps a steady tempo timeline from a start instant. It is the timebase of the
// simulated sound engine.
// Originally based on https://github.com/Deep-Symmetry/electro/blob/main/src/main/java/org/deepsymmetry/electro/Metronome.java#L449
type Metronome struct {
	mu          sync.Mutex
	clock       clock.PassiveClock
	startTime   time.Time
	tempo       float64
	beatsPerBar int
}

// NewMetronome creates a Metronome starting now on the given clock.
func NewMetronome(clk clock.PassiveClock, tempo float64, beatsPerBar int) *Metronome {
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}
	return &Metronome{
		clock:       clk,
		startTime:   clk.Now(),
		tempo:       tempo,
		beatsPerBar: beatsPerBar,
	}
}

// Tempo returns the tempo in beats per minute.
func (m *Metronome) Tempo() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// BeatsPerBar returns the bar length in beats.
func (m *Metronome) BeatsPerBar() int {
	return m.beatsPerBar
}

// SetTempo sets a new tempo. The start time is adjusted so that the current beat and phase are
// unaffected by the change.
func (m *Metronome) SetTempo(bpm float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	instant := m.clock.Now()
	interval := beatsToMilliseconds(1, m.tempo)
	beat := markerNumber(instant, m.startTime, interval)
	phase := markerPhase(instant, m.startTime, interval)
	newInterval := beatsToMilliseconds(1, bpm)
	offset := time.Duration(math.Round(newInterval*(phase+float64(beat)-1))) * time.Millisecond
	m.startTime = instant.Add(-offset)
	m.tempo = bpm
}

// Restart moves the start of the timeline to now.
func (m *Metronome) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTime = m.clock.Now()
}

// GetBeatInterval returns the number of milliseconds a beat lasts.
func (m *Metronome) GetBeatInterval() float64 {
	return beatsToMilliseconds(1, m.Tempo())
}

// GetBarInterval returns the number of milliseconds a bar lasts.
func (m *Metronome) GetBarInterval() float64 {
	return beatsToMilliseconds(m.beatsPerBar, m.Tempo())
}

// BeatDuration returns the beat length in seconds.
func (m *Metronome) BeatDuration() float64 {
	return m.GetBeatInterval() / 1000
}

// BarDuration returns the bar length in seconds.
func (m *Metronome) BarDuration() float64 {
	return m.GetBarInterval() / 1000
}

// Beat returns the 1-based number of the beat in progress.
func (m *Metronome) Beat() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(markerNumber(m.clock.Now(), m.startTime, beatsToMilliseconds(1, m.tempo)))
}

// Bar returns the 1-based number of the bar in progress.
func (m *Metronome) Bar() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(markerNumber(m.clock.Now(), m.startTime, beatsToMilliseconds(m.beatsPerBar, m.tempo)))
}

// BeatPhase returns how far through the current beat the metronome is, from 0 to 1.
func (m *Metronome) BeatPhase() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return markerPhase(m.clock.Now(), m.startTime, beatsToMilliseconds(1, m.tempo))
}

// BeatWithinBar returns the 1-based beat number relative to the start of the bar.
func (m *Metronome) BeatWithinBar() int {
	return int((m.Beat()-1)%int64(m.beatsPerBar)) + 1
}

// IsDownBeat reports whether the current beat is the first in its bar.
func (m *Metronome) IsDownBeat() bool {
	return m.BeatWithinBar() == 1
}

// beatsToMilliseconds calculates milliseconds for given beats and tempo
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

// markerNumber calculates the marker number
func markerNumber(instant, start time.Time, interval float64) int {
	return int(math.Floor(instant.Sub(start).Seconds()*1000/interval)) + 1
}

// markerPhase calculates the phase of a marker
func markerPhase(instant, start time.Time, interval float64) float64 {
	ratio := instant.Sub(start).Seconds() * 1000 / interval
	return ratio - math.Floor(ratio)
}
