package music

import (
	"math/rand"
	"testing"
	"time"

	"github.com/robmorgan/stargazer/rhythm"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

// newTestSong builds a song with two 2 bar grids in 4/4. Level 0 pulses on the third beat of
// the first bar, level 1 on the first and third beat of every bar.
func newTestSong(t *testing.T, title string) *rhythm.Song {
	t.Helper()

	patterns := map[int][]rhythm.MusicTime{
		0: {rhythm.NewMusicTime(0, 2, 0)},
		1: {
			rhythm.NewMusicTime(0, 0, 0),
			rhythm.NewMusicTime(0, 2, 0),
			rhythm.NewMusicTime(1, 0, 0),
			rhythm.NewMusicTime(1, 2, 0),
		},
	}
	first, err := rhythm.NewRhythmGrid("verse", 2, 4, 4, rhythm.CurveSine, patterns)
	require.NoError(t, err)
	second, err := rhythm.NewRhythmGrid("chorus", 2, 4, 4, rhythm.CurveSaw, patterns)
	require.NoError(t, err)

	song, err := rhythm.NewSong(title, first, second)
	require.NoError(t, err)
	return song
}

type recorder struct {
	beats      []float64
	bars       []float64
	divisions  []rhythm.MusicTime
	pulses     []float64
	curves     []rhythm.CurveType
	sucks      []float64
	complexity []bool
	queued     []rhythm.Segment
	started    []Transition
}

func (r *recorder) listen(o *Observers) {
	o.OnBeat(func(d float64) { r.beats = append(r.beats, d) })
	o.OnBar(func(d float64) { r.bars = append(r.bars, d) })
	o.OnDivision(func(mt rhythm.MusicTime) { r.divisions = append(r.divisions, mt) })
	o.OnPulse(func(curve rhythm.CurveType, secondsToPulse, _ float64) {
		r.curves = append(r.curves, curve)
		r.pulses = append(r.pulses, secondsToPulse)
	})
	o.OnSuck(func(s float64) { r.sucks = append(r.sucks, s) })
	o.OnComplexityChanged(func(rising bool) { r.complexity = append(r.complexity, rising) })
	o.OnSegmentQueued(func(seg rhythm.Segment, _ bool) { r.queued = append(r.queued, seg) })
	o.OnSegmentStarted(func(from, to rhythm.Segment) { r.started = append(r.started, Transition{from, to}) })
}

type complexityChange struct {
	level int
	ms    int
}

type recordingEngine struct {
	played     int
	stopped    []int
	songs      []string
	segments   []rhythm.Segment
	notified   []bool
	complexity []complexityChange
}

func (e *recordingEngine) Play()           { e.played++ }
func (e *recordingEngine) Stop(fadeMs int) { e.stopped = append(e.stopped, fadeMs) }
func (e *recordingEngine) SetSong(title string) {
	e.songs = append(e.songs, title)
}

func (e *recordingEngine) SetMusicSegment(segment rhythm.Segment, _ int, notify bool) {
	e.segments = append(e.segments, segment)
	e.notified = append(e.notified, notify)
}

func (e *recordingEngine) ChangeComplexity(level int, ms int) {
	e.complexity = append(e.complexity, complexityChange{level, ms})
}

type memoryProgress map[string]int

func (m memoryProgress) Load(title string) (int, bool) {
	v, ok := m[title]
	return v, ok
}

func (m memoryProgress) Save(title string, segment int) error {
	m[title] = segment
	return nil
}

type testRig struct {
	fc     *testingclock.FakeClock
	clock  *Clock
	events *recorder
	engine *recordingEngine
	perf   *StaticPerformance
}

func newTestRig(t *testing.T, songs ...*rhythm.Song) *testRig {
	t.Helper()

	if len(songs) == 0 {
		songs = []*rhythm.Song{newTestSong(t, "Horizon")}
	}

	rig := &testRig{
		fc:     testingclock.NewFakeClock(time.Unix(0, 0)),
		events: &recorder{},
		engine: &recordingEngine{},
		perf:   &StaticPerformance{LongTerm: 1},
	}

	c, err := New(rig.fc, Config{
		Songs:       songs,
		Performance: rig.perf,
		Engine:      rig.engine,
		Rand:        rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	rig.clock = c
	rig.events.listen(c.Events())
	return rig
}

// enter queues seg and confirms it, the way the sound engine would.
func (r *testRig) enter(seg rhythm.Segment) {
	r.clock.RequestSegment(seg)
	r.clock.OnExternalSyncEntry()
}

// step moves time forward by d and ticks the clock.
func (r *testRig) step(d time.Duration) {
	r.fc.Step(d)
	r.clock.Tick()
}

// playBars delivers count 2 second bars, ticking every 125ms in between.
func (r *testRig) playBars(count int) {
	for i := 0; i < count; i++ {
		r.clock.OnExternalBarBoundary(2)
		for j := 0; j < 16; j++ {
			r.step(125 * time.Millisecond)
		}
	}
}
