package music

// BeatScheduler fires the beats of one bar. It is polled with the current time and fires at most
// one beat per poll, correcting every interval with the beat drift it observes.
type BeatScheduler struct {
	drift    *DriftCorrector
	beats    int
	fired    int
	nominal  float64
	deadline float64
	stopped  bool
}

// NewBeatScheduler schedules beats beats of nominal seconds each, the first one at start.
func NewBeatScheduler(drift *DriftCorrector, start, nominal float64, beats int) *BeatScheduler {
	return &BeatScheduler{
		drift:    drift,
		beats:    beats,
		nominal:  nominal,
		deadline: start,
	}
}

// Tick fires the next beat if its deadline has passed and returns its index within the bar.
func (bs *BeatScheduler) Tick(now float64) (int, bool) {
	if !bs.Active() || now < bs.deadline {
		return 0, false
	}

	bs.drift.Observe(now, bs.deadline)
	bs.deadline += bs.drift.CorrectedInterval(bs.nominal)

	index := bs.fired
	bs.fired++
	return index, true
}

// Stop cancels the remaining beats.
func (bs *BeatScheduler) Stop() {
	bs.stopped = true
}

// Active reports whether beats are left to fire.
func (bs *BeatScheduler) Active() bool {
	return !bs.stopped && bs.fired < bs.beats
}

// Beats returns the number of beats in the bar.
func (bs *BeatScheduler) Beats() int {
	return bs.beats
}

// Nominal returns the uncorrected beat duration.
func (bs *BeatScheduler) Nominal() float64 {
	return bs.nominal
}

// NextDeadline returns when the next beat is due.
func (bs *BeatScheduler) NextDeadline() float64 {
	return bs.deadline
}
