package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, patterns map[int][]MusicTime) *RhythmGrid {
	t.Helper()
	rg, err := NewRhythmGrid("test", 2, 4, 4, CurveSine, patterns)
	require.NoError(t, err)
	return rg
}

// divisionUnits makes ToSeconds count divisions on a 2x4x4 grid.
func divisionUnits(mt MusicTime) float64 {
	return mt.ToSeconds(16, 4, 1)
}

func TestNewRhythmGridValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		bars     int
		beats    int
		patterns map[int][]MusicTime
	}{
		{"no bars", 0, 4, nil},
		{"no beats", 2, 0, nil},
		{"pulse past last bar", 2, 4, map[int][]MusicTime{0: {NewMusicTime(2, 0, 0)}}},
		{"pulse past last beat", 2, 4, map[int][]MusicTime{0: {NewMusicTime(0, 4, 0)}}},
		{"pulse past last division", 2, 4, map[int][]MusicTime{0: {NewMusicTime(0, 0, 4)}}},
		{"negative level", 2, 4, map[int][]MusicTime{-1: {NewMusicTime(0, 0, 0)}}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRhythmGrid("bad", testCase.bars, testCase.beats, 4, CurveSine, testCase.patterns)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}

func TestHasPulseAt(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {NewMusicTime(0, 2, 0)}})

	assert.True(t, rg.HasPulseAt(0, NewMusicTime(0, 2, 0)))
	// the pattern is authored for the first bar only
	assert.False(t, rg.HasPulseAt(0, NewMusicTime(1, 2, 0)))
	assert.False(t, rg.HasPulseAt(0, NewMusicTime(0, 2, 1)))
	// positions past the end of the grid wrap to the next loop
	assert.True(t, rg.HasPulseAt(0, NewMusicTime(2, 2, 0)))

	repeating := newTestGrid(t, map[int][]MusicTime{0: {NewMusicTime(0, 2, 0), NewMusicTime(1, 2, 0)}})
	assert.True(t, repeating.HasPulseAt(0, NewMusicTime(1, 2, 0)))
}

func TestUnknownComplexityFallsBackToLevelZero(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{
		0: {NewMusicTime(0, 2, 0)},
		2: {NewMusicTime(0, 1, 0)},
	})

	assert.True(t, rg.HasPulseAt(7, NewMusicTime(0, 2, 0)))
	assert.True(t, rg.HasPulseAt(-3, NewMusicTime(0, 2, 0)))
	assert.False(t, rg.HasPulseAt(2, NewMusicTime(0, 2, 0)))
	assert.True(t, rg.HasPulseAt(2, NewMusicTime(0, 1, 0)))
	assert.Equal(t, []int{0, 2}, rg.Levels())

	noBase := newTestGrid(t, map[int][]MusicTime{1: {NewMusicTime(0, 1, 0)}})
	assert.False(t, noBase.HasPulseAt(5, NewMusicTime(0, 1, 0)))
	assert.Equal(t, MusicTime{}, noBase.TimeToNextPulse(5, MusicTime{}, 1))
}

func TestTimeToNextPulse(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {NewMusicTime(0, 2, 0)}})

	assert.Equal(t, NewMusicTime(0, 2, 0), rg.TimeToNextPulse(0, NewMusicTime(0, 0, 0), 1))
	// the search is exclusive, so from the pulse itself it is a whole loop away
	assert.Equal(t, NewMusicTime(2, 0, 0), rg.TimeToNextPulse(0, NewMusicTime(0, 2, 0), 1))
	assert.Equal(t, NewMusicTime(1, 3, 3), rg.TimeToNextPulse(0, NewMusicTime(0, 2, 1), 1))
	assert.Equal(t, NewMusicTime(2, 2, 0), rg.TimeToNextPulse(0, NewMusicTime(0, 0, 0), 2))
	assert.Equal(t, rg.TimeToNextPulse(0, MusicTime{}, 1), rg.TimeToNextPulse(0, MusicTime{}, 0))
}

func TestTimeToNextPulseWrapsAtGridEnd(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {NewMusicTime(0, 0, 0), NewMusicTime(1, 3, 2)}})

	assert.Equal(t, NewMusicTime(0, 0, 1), rg.TimeToNextPulse(0, NewMusicTime(1, 3, 3), 1))
	assert.Equal(t, NewMusicTime(0, 0, 2), rg.TimeToNextPulse(0, NewMusicTime(1, 3, 0), 1))
	assert.Equal(t, NewMusicTime(0, 1, 0), rg.TimeToNextPulse(0, NewMusicTime(1, 3, 0), 2))
}

func TestTimeToNextPulseIsConsistentWithSingleSteps(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {
		NewMusicTime(0, 0, 2),
		NewMusicTime(0, 2, 0),
		NewMusicTime(1, 1, 3),
	}})

	for _, from := range []MusicTime{{}, NewMusicTime(0, 2, 0), NewMusicTime(1, 3, 3)} {
		pos := from
		walked := 0.0
		previous := 0.0
		for n := 1; n <= 7; n++ {
			jump := divisionUnits(rg.TimeToNextPulse(0, from, n))
			assert.Greater(t, jump, previous, "from %s n=%d", from, n)
			previous = jump

			step := rg.TimeToNextPulse(0, pos, 1)
			walked += divisionUnits(step)
			pos = NewMusicTime(pos.Bar+step.Bar, pos.Beat+step.Beat, pos.Division+step.Division)
			assert.Equal(t, jump, walked, "from %s n=%d", from, n)
			assert.True(t, rg.HasPulseAt(0, pos))
		}
	}
}

func TestEmptyPulseSet(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {}})

	assert.Equal(t, 0, rg.PulseCount(0))
	assert.False(t, rg.HasPulseAt(0, MusicTime{}))
	assert.True(t, rg.TimeToNextPulse(0, MusicTime{}, 4).IsZero())
}

func TestPulsesAreSortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	rg := newTestGrid(t, map[int][]MusicTime{0: {
		NewMusicTime(1, 0, 0),
		NewMusicTime(0, 3, 1),
		NewMusicTime(1, 0, 0),
	}})

	assert.Equal(t, []MusicTime{NewMusicTime(0, 3, 1), NewMusicTime(1, 0, 0)}, rg.Pulses(0))
	assert.Equal(t, 32, rg.LoopLength())
}
