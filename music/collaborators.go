package music

import "github.com/robmorgan/stargazer/rhythm"

// PerformanceProvider reports how well the player is doing.
type PerformanceProvider interface {
	// Complexity returns the complexity level the player's difficulty calls for.
	Complexity() int

	// LongTermPerformance returns a rolling performance score between 0 and 1.
	LongTermPerformance() float64
}

// SoundEngine receives the commands the clock sends back to the audio engine.
type SoundEngine interface {
	Play()
	Stop(fadeMs int)
	SetSong(title string)
	SetMusicSegment(segment rhythm.Segment, msIntoTwoBarPeriod int, notify bool)
	ChangeComplexity(level int, msIntoTwoBarPeriod int)
}

// ProgressStore persists the segment each song should resume from.
type ProgressStore interface {
	Load(title string) (segment int, ok bool)
	Save(title string, segment int) error
}

// StaticPerformance is a PerformanceProvider with fixed values, for hosts without a
// performance system.
type StaticPerformance struct {
	Level    int
	LongTerm float64
}

func (p *StaticPerformance) Complexity() int {
	return p.Level
}

func (p *StaticPerformance) LongTermPerformance() float64 {
	return p.LongTerm
}

// NopSoundEngine discards every command.
type NopSoundEngine struct{}

func (NopSoundEngine) Play()                                      {}
func (NopSoundEngine) Stop(int)                                   {}
func (NopSoundEngine) SetSong(string)                             {}
func (NopSoundEngine) SetMusicSegment(rhythm.Segment, int, bool) {}
func (NopSoundEngine) ChangeComplexity(int, int)                  {}
