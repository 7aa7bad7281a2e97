package music

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/robmorgan/stargazer/rhythm"
)

// PlaylistInfo mirrors the sound engine's playlist selection callback.
type PlaylistInfo struct {
	EventID    uint32
	PlayingID  uint32
	PlaylistID uint32
	ItemCount  uint32
	Selection  uint32
	ItemDone   uint32
}

// ClockState is everything the clock knows about the music timeline. Timestamps are seconds of
// clock runtime.
type ClockState struct {
	Song string

	Current rhythm.Segment
	Pending rhythm.Segment

	// CurrentBar, CurrentBeat and CurrentDivision are 0-indexed and -1 right after a reset.
	CurrentBar      int
	CurrentBeat     int
	CurrentDivision int
	TotalBars       int
	MusicTime       rhythm.MusicTime
	BeatsPerBar     int

	// BarDuration is the bar length reported by the sound engine.
	BarDuration         float64
	MeasuredBarDuration float64
	BarDesync           float64
	FilteredBarDesync   float64

	// BeatDuration and DivisionDuration are the scheduled lengths.
	BeatDuration     float64
	DivisionDuration float64

	ReportedBeatDuration float64
	MeasuredBeatDuration float64
	FilteredBeatDuration float64

	// BeatDesync is the lateness of the last scheduled beat.
	BeatDesync         float64
	FilteredBeatDesync float64

	// BeatBoundaryDesync compares the beat callbacks with the beat duration they report.
	BeatBoundaryDesync float64

	LastBarTime  float64
	LastBeatTime float64
	TwoBarStart  float64

	TimeToNextPulse float64
	FuturePulse     float64
	PastPulse       float64
	PulseSpacing    float64

	StarsConnected int
	StarsThreshold int
	Complexity     int
	SuckLookahead  int

	Playlist PlaylistInfo

	layoutSegment           rhythm.Segment
	hasLastBar              bool
	hasLastBeat             bool
	hasPlaylist             bool
	readyToResetBar         bool
	nextAllowedBar          float64
	nextAllowedBeat         float64
	allowComplexityChangeAt float64
	pulseRecalcAt           float64
}

func newClockState(settings Settings) ClockState {
	return ClockState{
		Current:              rhythm.SegmentNone,
		Pending:              rhythm.SegmentNone,
		layoutSegment:        rhythm.SegmentNone,
		CurrentBar:           -1,
		CurrentBeat:          -1,
		CurrentDivision:      -1,
		BeatsPerBar:          settings.DefaultBeatsPerBar,
		BarDuration:          2,
		MeasuredBarDuration:  2,
		BeatDuration:         0.5,
		ReportedBeatDuration: 0.5,
		MeasuredBeatDuration: 0.5,
		FilteredBeatDuration: 0.5,
		StarsThreshold:       settings.InitialStarsThreshold,
		Complexity:           -1,
		SuckLookahead:        1,
	}
}

// Dump renders the state for debug logs.
func (s ClockState) Dump() string {
	return spew.Sdump(s)
}
