package music

import (
	"math"

	"github.com/robmorgan/stargazer/logger"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/sirupsen/logrus"
)

// DivisionScheduler splits one beat into evenly spaced divisions. Like the BeatScheduler it is
// polled and fires at most one division per poll.
type DivisionScheduler struct {
	divisions int
	fired     int
	duration  float64
	deadline  float64
	stopped   bool
}

// NewDivisionScheduler schedules divisions divisions of a beat lasting beatDuration seconds, the
// first one at start.
func NewDivisionScheduler(start, beatDuration float64, divisions int) *DivisionScheduler {
	if divisions < 1 {
		divisions = 1
	}
	return &DivisionScheduler{
		divisions: divisions,
		duration:  beatDuration / float64(divisions),
		deadline:  start,
	}
}

// Tick fires the next division if its deadline has passed and returns its index within the beat.
func (ds *DivisionScheduler) Tick(now float64) (int, bool) {
	if !ds.Active() || now < ds.deadline {
		return 0, false
	}

	ds.deadline += ds.duration
	index := ds.fired
	ds.fired++
	return index, true
}

// Stop cancels the remaining divisions.
func (ds *DivisionScheduler) Stop() {
	ds.stopped = true
}

// Active reports whether divisions are left to fire.
func (ds *DivisionScheduler) Active() bool {
	return !ds.stopped && ds.fired < ds.divisions
}

// Duration returns the length of one division in seconds.
func (ds *DivisionScheduler) Duration() float64 {
	return ds.duration
}

// NextDeadline returns when the next division is due, in seconds of runtime.
func (ds *DivisionScheduler) NextDeadline() float64 {
	return ds.deadline
}

func (c *Clock) startDivisions(now, beatDuration float64) {
	if c.divisions != nil {
		c.divisions.Stop()
	}
	c.divisions = NewDivisionScheduler(now, beatDuration, c.settings.Divisions)
	c.state.DivisionDuration = c.divisions.Duration()
	c.state.CurrentDivision = -1

	c.tickDivisions(now)
}

func (c *Clock) tickDivisions(now float64) {
	if c.divisions == nil {
		return
	}
	index, ok := c.divisions.Tick(now)
	if !ok {
		return
	}
	c.state.CurrentDivision = index

	// a sync entry in the middle of a bar leaves no position until the next bar
	if c.state.CurrentBar < 0 || c.state.CurrentBeat < 0 {
		return
	}

	at := rhythm.NewMusicTime(c.state.CurrentBar, c.state.CurrentBeat, index)
	c.state.MusicTime = at
	c.events.emitDivision(at)

	if c.song.IsRhythm(c.state.Current) {
		c.onRhythmDivision(now, at)
	}
}

func (c *Clock) onRhythmDivision(now float64, at rhythm.MusicTime) {
	grid := c.gridFor(c.state.Current)
	if grid == nil {
		return
	}
	c.grid = grid

	c.updateComplexity(now)

	if c.state.FuturePulse == 0 {
		c.calculatePulseTimestamps(now)
	}

	if !grid.HasPulseAt(c.state.Complexity, at) {
		return
	}

	c.calculatePulseTimestamps(now)
	c.events.emitPulse(grid.Curve, c.state.TimeToNextPulse, c.state.FilteredBeatDesync)

	// the short sucks let a fresh star show its first pulses straight away
	if c.state.SuckLookahead < c.settings.MaxSuckLookahead {
		c.state.SuckLookahead++
		c.events.emitSuck(c.toSeconds(grid.TimeToNextPulse(c.state.Complexity, at, 1)))
	}
	c.events.emitSuck(c.toSeconds(grid.TimeToNextPulse(c.state.Complexity, at, c.settings.MaxSuckLookahead)))
}

func (c *Clock) updateComplexity(now float64) {
	level := c.performance.Complexity()
	if c.state.Complexity == -1 {
		c.state.Complexity = level
		return
	}
	if level == c.state.Complexity || now < c.state.allowComplexityChangeAt {
		return
	}

	rising := level > c.state.Complexity
	intoTwoBar := now - c.state.TwoBarStart

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"from":   c.state.Complexity,
		"to":     level,
		"rising": rising,
	}).Info("complexity changed")

	c.state.Complexity = level
	c.engine.ChangeComplexity(level, milliseconds(intoTwoBar))
	c.state.allowComplexityChangeAt = now + c.state.BarDuration*float64(c.settings.ComplexityCooldownBars) - intoTwoBar
	c.events.emitComplexityChanged(rising)
}

// calculatePulseTimestamps refreshes the pulse timestamps, or defers it until just after the
// upcoming pulse when that one has not passed yet.
func (c *Clock) calculatePulseTimestamps(now float64) {
	if now > c.state.FuturePulse {
		c.doCalculatePulseTimestamps(now)
		return
	}
	c.state.pulseRecalcAt = c.state.FuturePulse + c.settings.PulseRecalcDelay
}

func (c *Clock) doCalculatePulseTimestamps(now float64) {
	if c.grid == nil {
		return
	}

	next := c.grid.TimeToNextPulse(c.state.Complexity, c.state.MusicTime, 1)
	c.state.TimeToNextPulse = c.toSeconds(next)

	if now > c.state.FuturePulse {
		c.state.PastPulse = c.state.FuturePulse
		c.state.FuturePulse = now + c.state.TimeToNextPulse
		c.state.PulseSpacing = c.state.FuturePulse - c.state.PastPulse
	}
}

func (c *Clock) toSeconds(mt rhythm.MusicTime) float64 {
	return mt.ToSeconds(c.state.BarDuration, c.state.BeatDuration, c.state.DivisionDuration)
}

func milliseconds(seconds float64) int {
	return int(math.Round(seconds * 1000))
}
