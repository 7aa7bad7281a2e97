package music

import "time"

// Settings tunes the clock. DefaultSettings matches the authored content.
type Settings struct {
	// Divisions is the number of divisions every beat is split into.
	Divisions int

	// MaxSuckLookahead is how many pulses ahead the lookahead suck is sent for.
	MaxSuckLookahead int

	// InitialStarsThreshold is the number of stars to connect before the first segment change, and
	// StarsThresholdStep is added to it after every segment request.
	InitialStarsThreshold int
	StarsThresholdStep    int

	// LongTermPerformanceGate is the minimum long-term performance needed to move on.
	LongTermPerformanceGate float64

	// WarmupPeriod is the runtime, in seconds, during which timing samples are discarded.
	WarmupPeriod float64

	// ComplexityCooldownBars is the minimum number of bars between two complexity changes.
	ComplexityCooldownBars int

	// StartDesyncCorrection is subtracted from the time to the end of a segment on request.
	StartDesyncCorrection float64

	// DefaultBeatsPerBar is used for bars outside rhythm segments.
	DefaultBeatsPerBar int

	// IntroLoopBars is the bar counter period outside rhythm segments.
	IntroLoopBars int

	// PulseRecalcDelay is how long after the predicted pulse a deferred recalculation runs.
	PulseRecalcDelay float64

	// StopFade is the fade out used by StopMusic.
	StopFade time.Duration
}

// DefaultSettings returns the settings the game ships with.
func DefaultSettings() Settings {
	return Settings{
		Divisions:               4,
		MaxSuckLookahead:        4,
		InitialStarsThreshold:   8,
		StarsThresholdStep:      2,
		LongTermPerformanceGate: 0.25,
		WarmupPeriod:            4,
		ComplexityCooldownBars:  2,
		StartDesyncCorrection:   0.6,
		DefaultBeatsPerBar:      4,
		IntroLoopBars:           2,
		PulseRecalcDelay:        0.05,
		StopFade:                3 * time.Second,
	}
}
