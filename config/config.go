package config

import (
	"time"

	"github.com/robmorgan/stargazer/music"
)

// StargazerConfig represents options that configure the global behavior of the program
type StargazerConfig struct {
	// Music clock tuning
	Settings music.Settings

	// How often the timeline ticks the clock
	FrameInterval time.Duration

	// LogLevel is parsed by logrus, e.g. "info" or "debug"
	LogLevel string

	// ListenAddr is where sync callbacks from the sound engine arrive
	ListenAddr string

	// EngineHost and EnginePort are where sound engine commands are sent
	EngineHost string
	EnginePort int

	// Simulate runs a metronome in place of a real sound engine
	Simulate     bool
	Tempo        float64
	BeatsPerBar  int
	PollInterval time.Duration

	// SongsPath is an optional YAML song file. The built-in song is used when it is empty.
	SongsPath string
	ForceSong string

	// ProgressPath is where saved segment progress is kept. Progress is not stored when empty.
	ProgressPath string

	// OLAAddr is the OLA daemon used for DMX output. Output is disabled when empty.
	OLAAddr string
	OLATick time.Duration

	// Star is the palette for the star fixtures
	Star StarProfile

	// PatchedStars stores the DMX patch of each star fixture
	PatchedStars []PatchedStar

	// Monitor shows the terminal monitor instead of logging to the console
	Monitor bool
}

// Create a new StargazerConfig object with reasonable defaults for real usage
func NewStargazerConfig() StargazerConfig {
	return StargazerConfig{
		Settings:      music.DefaultSettings(),
		FrameInterval: music.DefaultFrameInterval,
		LogLevel:      "info",
		ListenAddr:    "127.0.0.1:8765",
		EngineHost:    "127.0.0.1",
		EnginePort:    8766,
		Tempo:         120,
		BeatsPerBar:   4,
		PollInterval:  5 * time.Millisecond,
		OLAAddr:       "localhost:9010",
		OLATick:       40 * time.Millisecond,
		Star:          StarProfiles()[DefaultStarProfile],
		PatchedStars:  PatchStars(),
	}
}
