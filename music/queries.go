package music

// The queries below read the clock state at the current time. They return 0 until the state they
// rely on is known.

// TimeToNextBar returns the seconds until the next bar is expected.
func (c *Clock) TimeToNextBar() float64 {
	if !c.state.hasLastBar {
		return 0
	}
	return c.state.LastBarTime + c.state.BarDuration - c.Now()
}

// TimeToNextBeat returns the seconds until the next beat of the sound engine is expected.
func (c *Clock) TimeToNextBeat() float64 {
	if !c.state.hasLastBeat || c.state.BeatDuration <= 0 {
		return 0
	}
	return c.state.LastBeatTime + c.state.BeatDuration - c.Now()
}

// TimeToNextPulse returns the seconds until the n-th next pulse. Outside rhythm segments there
// are no pulses, and the next bar is the closest thing to one.
func (c *Clock) TimeToNextPulse(n int) float64 {
	if !c.song.IsRhythm(c.state.Current) {
		return c.TimeToNextBar()
	}

	if n <= 1 {
		if c.state.FuturePulse == 0 {
			return 0
		}
		return c.state.FuturePulse - c.Now()
	}

	grid := c.gridFor(c.state.Current)
	if grid == nil {
		return 0
	}
	return c.toSeconds(grid.TimeToNextPulse(c.state.Complexity, c.state.MusicTime, n))
}

// TimeToNextPendingPulse returns the seconds to the next pulse of the queued segment, measured on
// its grid from the current position.
func (c *Clock) TimeToNextPendingPulse() float64 {
	pending := c.state.Pending
	if !c.song.IsRhythm(pending) || pending > c.song.Outro() {
		return 0
	}

	grid := c.gridFor(pending)
	if grid == nil {
		return 0
	}
	return c.toSeconds(grid.TimeToNextPulse(c.state.Complexity, c.state.MusicTime, 1))
}

// TimeToClosestPulse returns the seconds to whichever of the previous and next pulse is closer.
// Pulses more than two bars away in both directions count as no pulse at all.
func (c *Clock) TimeToClosestPulse() float64 {
	if c.state.FuturePulse == 0 || c.state.PulseSpacing < 0.1 {
		return 0
	}

	now := c.Now()
	toFuture := c.state.FuturePulse - now
	toPast := now - c.state.PastPulse

	window := c.state.BarDuration * 2
	if toFuture > window && toPast > window {
		return 0
	}
	if toFuture < toPast {
		return toFuture
	}
	return toPast
}

// TimeToEndOfSegment returns the seconds until the queued segment has played all of its bars.
// correctForStartDesync subtracts the delay the sound engine needs to start a segment.
func (c *Clock) TimeToEndOfSegment(correctForStartDesync bool) float64 {
	if !c.state.hasLastBar || c.state.CurrentBar < 0 {
		return 0
	}

	grid := c.gridFor(c.state.Pending)
	if grid == nil {
		return 0
	}

	remaining := c.TimeToNextBar()
	next := c.state.CurrentBar + 1
	if next < grid.Bars {
		remaining += float64(grid.Bars-next) * c.state.BarDuration
	}
	if correctForStartDesync {
		remaining -= c.settings.StartDesyncCorrection
	}
	return remaining
}

// TimeToNextDoubleBar returns the seconds until the next two-bar period starts.
func (c *Clock) TimeToNextDoubleBar() float64 {
	if !c.state.hasLastBar {
		return 0
	}

	remaining := c.TimeToNextBar()
	if c.state.CurrentBar%2 != 0 {
		remaining += c.state.BarDuration
	}
	return remaining
}
