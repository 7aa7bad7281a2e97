package glow

import (
	"fmt"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
	"k8s.io/utils/clock"
)

// Star is the glow of a constellation star. Sucks make it swell towards the upcoming pulse and
// every pulse flashes it to full brightness before it fades over the gap to the next one.
type Star struct {
	mu    sync.Mutex
	clock clock.PassiveClock
	base  colorful.Color
	peak  colorful.Color
	curve rhythm.CurveType

	phase phase
	from  time.Time
	until time.Time
}

type phase int

const (
	idle phase = iota
	rising
	fading
)

// NewStar creates a star glowing from base to peak, both given as hex colours.
func NewStar(clk clock.PassiveClock, base, peak string) (*Star, error) {
	b, err := colorful.Hex(base)
	if err != nil {
		return nil, fmt.Errorf("base colour: %w", err)
	}
	p, err := colorful.Hex(peak)
	if err != nil {
		return nil, fmt.Errorf("peak colour: %w", err)
	}
	return &Star{clock: clk, base: b, peak: p}, nil
}

// Attach makes the star follow the pulses and sucks of a clock.
func (s *Star) Attach(events *music.Observers) {
	events.OnSuck(s.OnSuck)
	events.OnPulse(s.OnPulse)
}

// OnSuck starts swelling towards a pulse secondsToEvent away. A nearer pulse wins over one
// further ahead.
func (s *Star) OnSuck(secondsToEvent float64) {
	if secondsToEvent <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	until := now.Add(seconds(secondsToEvent))
	if s.phase == rising && !until.Before(s.until) && s.until.After(now) {
		return
	}
	s.phase = rising
	s.from = now
	s.until = until
}

// OnPulse flashes the star and fades it out over secondsToPulse.
func (s *Star) OnPulse(curve rhythm.CurveType, secondsToPulse, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.curve = curve
	s.phase = fading
	s.from = now
	s.until = now.Add(seconds(secondsToPulse))
}

// Level returns the brightness of the star between 0 and 1.
func (s *Star) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == idle {
		return 0
	}

	now := s.clock.Now()
	span := s.until.Sub(s.from).Seconds()
	progress := 1.0
	if span > 0 {
		progress = now.Sub(s.from).Seconds() / span
	}

	if s.phase == rising {
		return s.curve.Value(progress)
	}
	return 1 - s.curve.Value(progress)
}

// Color returns the current colour of the star.
func (s *Star) Color() colorful.Color {
	return s.base.BlendHcl(s.peak, s.Level()).Clamped()
}

// Hex returns the current colour of the star as #rrggbb.
func (s *Star) Hex() string {
	return s.Color().Hex()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
