package music

import "github.com/robmorgan/stargazer/rhythm"

// Observers holds the gameplay listeners of a clock. Listeners run on the timeline goroutine in
// the order they were registered.
type Observers struct {
	beat       []func(duration float64)
	bar        []func(duration float64)
	division   []func(t rhythm.MusicTime)
	pulse      []func(curve rhythm.CurveType, secondsToPulse, filteredDesync float64)
	suck       []func(secondsToEvent float64)
	complexity []func(rising bool)
	queued     []func(segment rhythm.Segment, notify bool)
	started    []func(from, to rhythm.Segment)
}

// OnBeat registers fn to run on every beat with the scheduled beat duration.
func (o *Observers) OnBeat(fn func(duration float64)) {
	o.beat = append(o.beat, fn)
}

// OnBar registers fn to run on every accepted bar boundary with the bar duration.
func (o *Observers) OnBar(fn func(duration float64)) {
	o.bar = append(o.bar, fn)
}

// OnDivision registers fn to run on every division with its position.
func (o *Observers) OnDivision(fn func(t rhythm.MusicTime)) {
	o.division = append(o.division, fn)
}

// OnPulse registers fn to run when a division carries a pulse.
func (o *Observers) OnPulse(fn func(curve rhythm.CurveType, secondsToPulse, filteredDesync float64)) {
	o.pulse = append(o.pulse, fn)
}

// OnSuck registers fn to run ahead of an upcoming pulse, with the seconds left until it.
func (o *Observers) OnSuck(fn func(secondsToEvent float64)) {
	o.suck = append(o.suck, fn)
}

// OnComplexityChanged registers fn to run when the active complexity level changes.
func (o *Observers) OnComplexityChanged(fn func(rising bool)) {
	o.complexity = append(o.complexity, fn)
}

// OnSegmentQueued registers fn to run when a new segment is requested from the sound engine.
func (o *Observers) OnSegmentQueued(fn func(segment rhythm.Segment, notify bool)) {
	o.queued = append(o.queued, fn)
}

// OnSegmentStarted registers fn to run when the sound engine confirms a new segment.
func (o *Observers) OnSegmentStarted(fn func(from, to rhythm.Segment)) {
	o.started = append(o.started, fn)
}

func (o *Observers) emitBeat(duration float64) {
	for _, fn := range o.beat {
		fn(duration)
	}
}

func (o *Observers) emitBar(duration float64) {
	for _, fn := range o.bar {
		fn(duration)
	}
}

func (o *Observers) emitDivision(t rhythm.MusicTime) {
	for _, fn := range o.division {
		fn(t)
	}
}

func (o *Observers) emitPulse(curve rhythm.CurveType, secondsToPulse, filteredDesync float64) {
	for _, fn := range o.pulse {
		fn(curve, secondsToPulse, filteredDesync)
	}
}

func (o *Observers) emitSuck(secondsToEvent float64) {
	for _, fn := range o.suck {
		fn(secondsToEvent)
	}
}

func (o *Observers) emitComplexityChanged(rising bool) {
	for _, fn := range o.complexity {
		fn(rising)
	}
}

func (o *Observers) emitSegmentQueued(segment rhythm.Segment, notify bool) {
	for _, fn := range o.queued {
		fn(segment, notify)
	}
}

func (o *Observers) emitSegmentStarted(from, to rhythm.Segment) {
	for _, fn := range o.started {
		fn(from, to)
	}
}
