package rhythm

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrInvalidGrid is returned when a rhythm grid definition is inconsistent.
var ErrInvalidGrid = errors.New("invalid rhythm grid")

// RhythmGrid defines the bars and beats of a music segment and where its pulses fall for each
// complexity level. Grids are authored up front and are read-only once created.
type RhythmGrid struct {
	Name        string
	Bars        int
	BeatsPerBar int
	Divisions   int
	Curve       CurveType

	// pulse offsets per complexity level, stored as sorted division ordinals
	pulses map[int][]int
}

// NewRhythmGrid validates the pulse patterns against the grid bounds and indexes them.
func NewRhythmGrid(name string, bars, beatsPerBar, divisions int, curve CurveType, patterns map[int][]MusicTime) (*RhythmGrid, error) {
	if bars <= 0 || beatsPerBar <= 0 || divisions <= 0 {
		return nil, fmt.Errorf("%w: grid %q needs positive bars, beats and divisions (got %d/%d/%d)",
			ErrInvalidGrid, name, bars, beatsPerBar, divisions)
	}

	rg := &RhythmGrid{
		Name:        name,
		Bars:        bars,
		BeatsPerBar: beatsPerBar,
		Divisions:   divisions,
		Curve:       curve,
		pulses:      make(map[int][]int, len(patterns)),
	}

	for level, offsets := range patterns {
		if level < 0 {
			return nil, fmt.Errorf("%w: grid %q has negative complexity level %d", ErrInvalidGrid, name, level)
		}

		ordinals := make([]int, 0, len(offsets))
		for _, mt := range offsets {
			if !rg.contains(mt) {
				return nil, fmt.Errorf("%w: grid %q pulse %s is outside %d.%d.%d",
					ErrInvalidGrid, name, mt, bars, beatsPerBar, divisions)
			}
			ordinals = append(ordinals, rg.ordinal(mt))
		}
		slices.Sort(ordinals)
		rg.pulses[level] = slices.Compact(ordinals)
	}

	return rg, nil
}

// LoopLength is the length of one pass through the grid, in divisions.
func (rg *RhythmGrid) LoopLength() int {
	return rg.Bars * rg.BeatsPerBar * rg.Divisions
}

// Levels returns the complexity levels that have a pulse pattern, in ascending order.
func (rg *RhythmGrid) Levels() []int {
	levels := maps.Keys(rg.pulses)
	slices.Sort(levels)
	return levels
}

// PulseCount returns the number of pulses in one loop for the given complexity level.
func (rg *RhythmGrid) PulseCount(level int) int {
	return len(rg.pattern(level))
}

// Pulses returns the pulse offsets for the given complexity level in grid order.
func (rg *RhythmGrid) Pulses(level int) []MusicTime {
	pattern := rg.pattern(level)
	out := make([]MusicTime, len(pattern))
	for i, ord := range pattern {
		out[i] = rg.fromOrdinal(ord)
	}
	return out
}

// HasPulseAt reports whether there is a pulse at t, wrapped to the grid loop. Unknown complexity
// levels use the level 0 pattern.
func (rg *RhythmGrid) HasPulseAt(level int, t MusicTime) bool {
	return slices.Contains(rg.pattern(level), rg.wrap(rg.ordinal(t)))
}

// TimeToNextPulse returns the distance from `from` to the n-th pulse after it (exclusive),
// continuing into the next loop of the grid when needed. A grid without pulses for the level
// returns the zero MusicTime.
func (rg *RhythmGrid) TimeToNextPulse(level int, from MusicTime, n int) MusicTime {
	pattern := rg.pattern(level)
	if len(pattern) == 0 {
		return MusicTime{}
	}
	if n < 1 {
		n = 1
	}

	start := rg.wrap(rg.ordinal(from))
	first := len(pattern)
	for i, ord := range pattern {
		if ord > start {
			first = i
			break
		}
	}

	idx := first + n - 1
	target := pattern[idx%len(pattern)] + (idx/len(pattern))*rg.LoopLength()
	return rg.fromOrdinal(target - start)
}

func (rg *RhythmGrid) pattern(level int) []int {
	if level >= 0 {
		if p, ok := rg.pulses[level]; ok {
			return p
		}
	}
	return rg.pulses[0]
}

func (rg *RhythmGrid) contains(mt MusicTime) bool {
	return mt.Bar >= 0 && mt.Bar < rg.Bars &&
		mt.Beat >= 0 && mt.Beat < rg.BeatsPerBar &&
		mt.Division >= 0 && mt.Division < rg.Divisions
}

func (rg *RhythmGrid) ordinal(mt MusicTime) int {
	return (mt.Bar*rg.BeatsPerBar+mt.Beat)*rg.Divisions + mt.Division
}

func (rg *RhythmGrid) wrap(ord int) int {
	l := rg.LoopLength()
	return ((ord % l) + l) % l
}

func (rg *RhythmGrid) fromOrdinal(ord int) MusicTime {
	perBar := rg.BeatsPerBar * rg.Divisions
	return NewMusicTime(ord/perBar, (ord/rg.Divisions)%rg.BeatsPerBar, ord%rg.Divisions)
}
