package music

// filterRetain is the share of the previous value every filter in the clock keeps.
const filterRetain = 0.8

// smooth blends a new sample into a filtered value.
func smooth(filtered, sample float64) float64 {
	return filtered*filterRetain + sample*(1-filterRetain)
}

// DriftCorrector estimates how far an observed timeline runs from the predicted one, using an
// exponential filter over desync samples.
type DriftCorrector struct {
	warmup   float64
	last     float64
	filtered float64
	samples  int
}

// NewDriftCorrector creates a corrector that ignores samples taken before warmup seconds of
// runtime, when the sound engine still delivers its first callbacks out of time.
func NewDriftCorrector(warmup float64) *DriftCorrector {
	return &DriftCorrector{warmup: warmup}
}

// Observe records the desync between when something happened and when it was scheduled, both in
// seconds of runtime. It returns false when the sample was discarded as a warm-up sample.
func (d *DriftCorrector) Observe(actual, scheduled float64) bool {
	if actual < d.warmup {
		return false
	}

	d.last = actual - scheduled
	if d.samples == 0 {
		d.filtered = d.last
	} else {
		d.filtered = smooth(d.filtered, d.last)
	}
	d.samples++
	return true
}

// CorrectedInterval shortens or stretches the nominal interval so the local clock falls back into
// phase with the observed timeline.
func (d *DriftCorrector) CorrectedInterval(nominal float64) float64 {
	return nominal - d.filtered
}

// Filtered returns the filtered desync in seconds.
func (d *DriftCorrector) Filtered() float64 {
	return d.filtered
}

// Last returns the most recent accepted desync sample in seconds.
func (d *DriftCorrector) Last() float64 {
	return d.last
}

// Samples returns the number of accepted samples.
func (d *DriftCorrector) Samples() int {
	return d.samples
}

// Reset discards every sample. The warm-up period is kept.
func (d *DriftCorrector) Reset() {
	d.last = 0
	d.filtered = 0
	d.samples = 0
}
