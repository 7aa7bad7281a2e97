package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestSimulatorReportsBarsAndBeats(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	sink := &recordingSink{}
	sim := NewSimulator(clk, 120, 4, sink)

	sim.Poll()
	assert.Empty(t, sink.bars)

	sim.Play()
	sim.Poll()
	sim.Poll()
	assert.Equal(t, []float64{2}, sink.bars)
	assert.Equal(t, []float64{0.5}, sink.beats)

	for i := 0; i < 4; i++ {
		clk.Step(500 * time.Millisecond)
		sim.Poll()
	}
	assert.Len(t, sink.bars, 2)
	assert.Len(t, sink.beats, 5)

	sim.Stop(3000)
	clk.Step(2 * time.Second)
	sim.Poll()
	assert.Len(t, sink.bars, 2)
}

func TestSimulatorStartsQueuedSegmentOnNextBar(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	sink := &recordingSink{}
	sim := NewSimulator(clk, 120, 4, sink)
	sim.Play()
	sim.Poll()

	sim.SetSong("Horizon")
	sim.SetMusicSegment(rhythm.SegmentIntro, 0, false)
	sim.ChangeComplexity(2, 0)
	assert.Equal(t, "Horizon", sim.Song())
	assert.Equal(t, 2, sim.Complexity())

	clk.Step(time.Second)
	sim.Poll()
	assert.Equal(t, 0, sink.entries)

	clk.Step(time.Second)
	sim.Poll()
	assert.Equal(t, 1, sink.entries)
	require.Len(t, sink.playlists, 1)
	assert.Equal(t, uint32(1), sink.playlists[0].PlaylistID)

	clk.Step(2 * time.Second)
	sim.Poll()
	assert.Equal(t, 1, sink.entries)
}

func TestSimulatorDrivesClock(t *testing.T) {
	t.Parallel()

	grid, err := rhythm.NewRhythmGrid("verse", 2, 4, 4, rhythm.CurveSine, map[int][]rhythm.MusicTime{
		0: {rhythm.NewMusicTime(0, 2, 0)},
	})
	require.NoError(t, err)
	song, err := rhythm.NewSong("Horizon", grid)
	require.NoError(t, err)

	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	sim := NewSimulator(clk, 120, 4, nil)
	c, err := music.New(clk, music.Config{Songs: []*rhythm.Song{song}, Engine: sim})
	require.NoError(t, err)
	tl := music.NewTimeline(clk, c, music.DefaultFrameInterval, 64)
	sim.Connect(tl)

	pulses := 0
	c.Events().OnPulse(func(rhythm.CurveType, float64, float64) { pulses++ })

	c.Begin()
	for i := 0; i < 2400; i++ {
		clk.Step(5 * time.Millisecond)
		sim.Poll()
		tl.Step()
		if i == 100 {
			c.OnFirstStarCreated()
		}
	}

	state := c.Snapshot()
	assert.Equal(t, rhythm.SegmentFirst, state.Current)
	assert.InDelta(t, 0, state.FilteredBarDesync, 1e-6)
	assert.InDelta(t, 2.0, state.MeasuredBarDuration, 1e-6)
	assert.GreaterOrEqual(t, pulses, 2)
	assert.Equal(t, int64(0), tl.Dropped())
}

func TestSimulatorRunStopsWithContext(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(testingclock.NewFakeClock(time.Unix(0, 0)), 120, 4, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go sim.Run(ctx, wg, 0)

	cancel()
	wg.Wait()
}
