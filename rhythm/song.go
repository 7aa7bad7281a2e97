package rhythm

import (
	"errors"
	"fmt"
)

// ErrEmptySong is returned when a song has no rhythm segments.
var ErrEmptySong = errors.New("song has no rhythm segments")

// NoProgress marks a song that has not stored a segment to resume from.
const NoProgress = -1

// Song is a playable piece of music with one rhythm grid per rhythm segment.
type Song struct {
	Title string

	// Grids holds the grid for segment 1 at index 0, segment 2 at index 1 and so on.
	Grids []*RhythmGrid

	// SavedSegmentProgress is the last rhythm segment queued, so a later session can skip the
	// intro. It is NoProgress when nothing has been stored.
	SavedSegmentProgress int
}

// NewSong creates a song without saved progress.
func NewSong(title string, grids ...*RhythmGrid) (*Song, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySong, title)
	}
	return &Song{
		Title:                title,
		Grids:                grids,
		SavedSegmentProgress: NoProgress,
	}, nil
}

// SegmentCount returns the number of rhythm segments.
func (s *Song) SegmentCount() int {
	return len(s.Grids)
}

// Outro returns the segment that follows the last rhythm segment.
func (s *Song) Outro() Segment {
	return Segment(len(s.Grids) + 1)
}

// IsRhythm reports whether seg is one of the rhythm segments between the intro and the outro.
func (s *Song) IsRhythm(seg Segment) bool {
	return seg.IsRhythm() && seg != s.Outro()
}

// HasProgress reports whether a rhythm segment has been stored to resume from.
func (s *Song) HasProgress() bool {
	return s.SavedSegmentProgress > NoProgress
}

// Grid returns the rhythm grid for seg. Segments without a grid of their own get the first
// grid and ok is false.
func (s *Song) Grid(seg Segment) (rg *RhythmGrid, ok bool) {
	if len(s.Grids) == 0 {
		return nil, false
	}
	i := int(seg) - 1
	if i < 0 || i >= len(s.Grids) {
		return s.Grids[0], false
	}
	return s.Grids[i], true
}

// SegmentName names seg in the context of this song.
func (s *Song) SegmentName(seg Segment) string {
	if seg == s.Outro() {
		return "Outro"
	}
	if rg, ok := s.Grid(seg); ok && rg.Name != "" {
		return fmt.Sprintf("%s (%s)", seg, rg.Name)
	}
	return seg.String()
}
