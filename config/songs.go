package config

import (
	"fmt"
	"io/ioutil"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/stargazer/rhythm"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// SongFile is the YAML layout of a song file.
type SongFile struct {
	Songs []SongDefinition `yaml:"songs"`
}

type SongDefinition struct {
	Title    string           `yaml:"title"`
	Segments []GridDefinition `yaml:"segments"`
}

// GridDefinition describes one rhythm segment. Pulses maps a complexity level to the
// "bar.beat.division" offsets of its pulses.
type GridDefinition struct {
	Name        string           `yaml:"name"`
	Bars        int              `yaml:"bars"`
	BeatsPerBar int              `yaml:"beats_per_bar"`
	Divisions   int              `yaml:"divisions"`
	Curve       string           `yaml:"curve"`
	Pulses      map[int][]string `yaml:"pulses"`
}

// LoadSongs reads every song in the YAML file at path.
func LoadSongs(path string) ([]*rhythm.Song, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return ParseSongs(data)
}

// ParseSongs decodes a YAML song file.
func ParseSongs(data []byte) ([]*rhythm.Song, error) {
	var file SongFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	songs := make([]*rhythm.Song, 0, len(file.Songs))
	for _, def := range file.Songs {
		song, err := def.Build()
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

// Build converts the definition into a song.
func (d SongDefinition) Build() (*rhythm.Song, error) {
	grids := make([]*rhythm.RhythmGrid, 0, len(d.Segments))
	for _, seg := range d.Segments {
		grid, err := seg.Build()
		if err != nil {
			return nil, fmt.Errorf("song %q: %w", d.Title, err)
		}
		grids = append(grids, grid)
	}
	return rhythm.NewSong(d.Title, grids...)
}

// Build converts the definition into a rhythm grid.
func (d GridDefinition) Build() (*rhythm.RhythmGrid, error) {
	curve, err := rhythm.ParseCurveType(d.Curve)
	if err != nil {
		return nil, fmt.Errorf("segment %q: %w", d.Name, err)
	}

	levels := maps.Keys(d.Pulses)
	slices.Sort(levels)

	patterns := make(map[int][]rhythm.MusicTime, len(levels))
	for _, level := range levels {
		times := make([]rhythm.MusicTime, 0, len(d.Pulses[level]))
		for _, s := range d.Pulses[level] {
			mt, err := rhythm.ParseMusicTime(s)
			if err != nil {
				return nil, fmt.Errorf("segment %q level %d: %w", d.Name, level, err)
			}
			times = append(times, mt)
		}
		patterns[level] = times
	}

	return rhythm.NewRhythmGrid(d.Name, d.Bars, d.BeatsPerBar, d.Divisions, curve, patterns)
}

// DefaultSongs returns the song that ships with stargazer.
func DefaultSongs() []*rhythm.Song {
	songs, err := ParseSongs([]byte(builtinSongs))
	if err != nil {
		panic(fmt.Sprintf("built-in songs are invalid: %v", err))
	}
	return songs
}

const builtinSongs = `
songs:
  - title: Starlight
    segments:
      - name: drift
        bars: 2
        beats_per_bar: 4
        divisions: 4
        curve: sine
        pulses:
          0: ["0.0.0", "1.0.0"]
          1: ["0.0.0", "0.2.0", "1.0.0", "1.2.0"]
          2: ["0.0.0", "0.1.0", "0.2.0", "0.3.0", "1.0.0", "1.1.0", "1.2.0", "1.3.0"]
      - name: orbit
        bars: 4
        beats_per_bar: 4
        divisions: 4
        curve: saw
        pulses:
          0: ["0.0.0", "2.0.0"]
          1: ["0.0.0", "1.0.0", "2.0.0", "3.0.0"]
          2: ["0.0.0", "0.2.0", "1.0.0", "1.2.0", "2.0.0", "2.2.0", "3.0.0", "3.2.0"]
      - name: collapse
        bars: 2
        beats_per_bar: 3
        divisions: 4
        curve: sine
        pulses:
          0: ["0.0.0"]
          1: ["0.0.0", "1.0.0"]
          2: ["0.0.0", "0.1.2", "1.0.0", "1.1.2"]
`
