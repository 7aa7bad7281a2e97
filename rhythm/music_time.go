package rhythm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMusicTime is returned when a music time cannot be parsed.
var ErrInvalidMusicTime = errors.New("invalid music time")

// MusicTime is a position on a rhythm grid, or the distance between two positions.
// Values are never modified in place, every computation produces a new one.
type MusicTime struct {
	Bar      int
	Beat     int
	Division int
}

// NewMusicTime creates a MusicTime for the given bar, beat and division.
func NewMusicTime(bar, beat, division int) MusicTime {
	return MusicTime{Bar: bar, Beat: beat, Division: division}
}

// ToSeconds converts the music time to seconds using the current tempo parameters.
func (mt MusicTime) ToSeconds(barDuration, beatDuration, divisionDuration float64) float64 {
	return float64(mt.Bar)*barDuration + float64(mt.Beat)*beatDuration + float64(mt.Division)*divisionDuration
}

// IsZero reports whether mt is the zero position (also used as the "no pulse" delta).
func (mt MusicTime) IsZero() bool {
	return mt == MusicTime{}
}

// String returns the music time as "bar.beat.division".
func (mt MusicTime) String() string {
	return fmt.Sprintf("%d.%d.%d", mt.Bar, mt.Beat, mt.Division)
}

// ParseMusicTime parses the "bar.beat.division" form produced by String.
func ParseMusicTime(s string) (MusicTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return MusicTime{}, fmt.Errorf("%w: %q", ErrInvalidMusicTime, s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return MusicTime{}, fmt.Errorf("%w: %q", ErrInvalidMusicTime, s)
		}
		values[i] = v
	}

	return NewMusicTime(values[0], values[1], values[2]), nil
}
