package music

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gruntwork-io/go-commons/collections"
	"github.com/robmorgan/stargazer/logger"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

var (
	// ErrNoSongAvailable is returned when a clock is created without any song to play.
	ErrNoSongAvailable = errors.New("no song available")

	// ErrSongNotFound is returned when a song is requested by a title the clock does not know.
	ErrSongNotFound = errors.New("song not found")

	// ErrDivisionMismatch is returned for a song with a grid that does not split beats into the
	// divisions the clock runs with.
	ErrDivisionMismatch = errors.New("grid divisions do not match the clock")
)

// Config holds what a Clock needs from its host.
type Config struct {
	Songs []*rhythm.Song

	// ForceSong, when set, is the title of the only song the clock will play.
	ForceSong string

	// Settings defaults to DefaultSettings when left empty.
	Settings Settings

	Performance PerformanceProvider
	Engine      SoundEngine

	// Progress is optional.
	Progress ProgressStore

	// Rand picks songs. A time seeded source is used when it is nil.
	Rand *rand.Rand
}

// Clock is the self-correcting music clock. It follows the bar, beat and segment callbacks of
// the sound engine, predicts the rhythm grid between them and tells gameplay about beats, pulses
// and upcoming pulses ahead of time.
//
// A Clock is not safe for concurrent use. Hosts with callbacks arriving on other goroutines
// should drive it through a Timeline.
type Clock struct {
	clock clock.PassiveClock
	start time.Time

	settings    Settings
	songs       []*rhythm.Song
	forced      *rhythm.Song
	song        *rhythm.Song
	performance PerformanceProvider
	engine      SoundEngine
	progress    ProgressStore
	rand        *rand.Rand

	sequencer     *SegmentSequencer
	barDrift      *DriftCorrector
	beatDrift     *DriftCorrector
	beatSyncDrift *DriftCorrector
	beats         *BeatScheduler
	divisions     *DivisionScheduler

	// grid is the grid of the last division that ran in a rhythm segment.
	grid        *rhythm.RhythmGrid
	warnedGrids map[rhythm.Segment]bool

	state  ClockState
	events Observers
}

// New creates a clock measuring time from clk.
func New(clk clock.PassiveClock, cfg Config) (*Clock, error) {
	settings := cfg.Settings
	if settings == (Settings{}) {
		settings = DefaultSettings()
	}

	if len(cfg.Songs) == 0 {
		return nil, ErrNoSongAvailable
	}

	c := &Clock{
		clock:         clk,
		start:         clk.Now(),
		settings:      settings,
		performance:   cfg.Performance,
		engine:        cfg.Engine,
		progress:      cfg.Progress,
		rand:          cfg.Rand,
		barDrift:      NewDriftCorrector(settings.WarmupPeriod),
		beatDrift:     NewDriftCorrector(settings.WarmupPeriod),
		beatSyncDrift: NewDriftCorrector(settings.WarmupPeriod),
		warnedGrids:   map[rhythm.Segment]bool{},
		state:         newClockState(settings),
	}
	if c.performance == nil {
		c.performance = &StaticPerformance{LongTerm: 1}
	}
	if c.engine == nil {
		c.engine = NopSoundEngine{}
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(clk.Now().UnixNano()))
	}

	for _, song := range cfg.Songs {
		if err := c.checkSong(song); err != nil {
			return nil, err
		}
		c.AddSong(song)
	}

	if cfg.ForceSong != "" {
		forced := c.findSong(cfg.ForceSong)
		if forced == nil {
			return nil, fmt.Errorf("forced song %q: %w", cfg.ForceSong, ErrSongNotFound)
		}
		c.forced = forced
	}

	initial := c.forced
	if initial == nil {
		initial = c.songs[c.rand.Intn(len(c.songs))]
	}
	c.sequencer = NewSegmentSequencer(initial)
	c.selectSong(initial)

	return c, nil
}

// Events returns the listeners of the clock.
func (c *Clock) Events() *Observers {
	return &c.events
}

// Snapshot returns a copy of the clock state.
func (c *Clock) Snapshot() ClockState {
	return c.state
}

// Settings returns the settings the clock runs with.
func (c *Clock) Settings() Settings {
	return c.settings
}

// Song returns the song currently selected.
func (c *Clock) Song() *rhythm.Song {
	return c.song
}

// Songs returns the titles of all known songs.
func (c *Clock) Songs() []string {
	titles := make([]string, 0, len(c.songs))
	for _, song := range c.songs {
		titles = append(titles, song.Title)
	}
	return titles
}

// Now returns the clock runtime in seconds.
func (c *Clock) Now() float64 {
	return c.clock.Since(c.start).Seconds()
}

// OnExternalPlaylistSelect records a playlist selection from the sound engine. The sound engine
// repeats selections of the same playlist, and those are ignored.
func (c *Clock) OnExternalPlaylistSelect(info PlaylistInfo) bool {
	if c.state.hasPlaylist && c.state.Playlist.PlaylistID == info.PlaylistID {
		return false
	}

	c.state.Playlist = info
	c.state.hasPlaylist = true

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"segment":     c.song.SegmentName(c.state.Current),
		"event_id":    info.EventID,
		"playing_id":  info.PlayingID,
		"playlist_id": info.PlaylistID,
		"items":       info.ItemCount,
		"selection":   info.Selection,
		"item_done":   info.ItemDone,
	}).Debug("playlist selected")
	return true
}

// OnExternalSyncEntry is called when the sound engine starts playing a new entry. A queued
// segment becomes the current one and the bar counters start over.
func (c *Clock) OnExternalSyncEntry() {
	logger := logger.GetProjectLogger()

	tr, ok := c.sequencer.OnSyncEntry()
	if !ok {
		logger.Debug("sync entry without a queued segment")
		return
	}

	// gameplay needs a suck before the very first pulses
	if tr.From == rhythm.SegmentNone {
		lead := c.state.BarDuration
		if c.state.hasLastBar {
			lead = c.TimeToNextBar()
		}
		c.events.emitSuck(lead)
	}

	c.state.Current = tr.To
	c.state.CurrentBar = -1
	c.state.CurrentBeat = -1
	c.state.CurrentDivision = -1
	c.state.readyToResetBar = true

	logger.WithFields(logrus.Fields{
		"from":        c.song.SegmentName(tr.From),
		"to":          c.song.SegmentName(tr.To),
		"playlist_id": c.state.Playlist.PlaylistID,
	}).Info("music segment started")

	c.events.emitSegmentStarted(tr.From, tr.To)
}

// OnExternalBarBoundary is called on every bar the sound engine plays, with the bar duration in
// seconds. It returns false when the callback arrived within half a bar of the previous one.
func (c *Clock) OnExternalBarBoundary(barDuration float64) bool {
	logger := logger.GetProjectLogger()
	now := c.Now()

	if barDuration <= 0 || now < c.state.nextAllowedBar {
		logger.WithFields(logrus.Fields{
			"now":          now,
			"next_allowed": c.state.nextAllowedBar,
			"bar_duration": barDuration,
		}).Debug("ignoring stale bar callback")
		return false
	}

	c.state.BarDuration = barDuration
	c.state.nextAllowedBar = now + barDuration*0.5

	if c.state.hasLastBar && c.barDrift.Observe(now, c.state.LastBarTime+barDuration) {
		c.state.MeasuredBarDuration = now - c.state.LastBarTime
		c.state.BarDesync = c.barDrift.Last()
		c.state.FilteredBarDesync = c.barDrift.Filtered()
	}
	c.state.LastBarTime = now
	c.state.hasLastBar = true

	c.events.emitBar(barDuration)
	c.state.TotalBars++
	c.state.CurrentBar++
	c.state.CurrentBeat = -1

	switch {
	case c.state.readyToResetBar:
		c.state.CurrentBar = 0
		c.state.readyToResetBar = false
	case c.state.CurrentBar >= c.barsFor(c.state.Current):
		c.state.CurrentBar = 0
	}

	if c.state.CurrentBar%2 == 0 {
		c.state.TwoBarStart = now
	}

	// the beats of this bar still follow the segment that played the previous one
	c.startBeats(now, barDuration, c.beatsFor(c.state.layoutSegment))
	c.state.layoutSegment = c.state.Current

	return true
}

// OnExternalBeatBoundary is called on every beat the sound engine plays, with the beat duration
// in seconds. It returns false when the callback arrived within half a beat of the previous one.
func (c *Clock) OnExternalBeatBoundary(beatDuration float64) bool {
	now := c.Now()

	if beatDuration <= 0 || now < c.state.nextAllowedBeat {
		logger := logger.GetProjectLogger()
		logger.WithFields(logrus.Fields{
			"now":           now,
			"next_allowed":  c.state.nextAllowedBeat,
			"beat_duration": beatDuration,
		}).Debug("ignoring stale beat callback")
		return false
	}

	c.state.ReportedBeatDuration = beatDuration
	c.state.nextAllowedBeat = now + beatDuration*0.5

	if c.state.hasLastBeat && c.beatSyncDrift.Observe(now, c.state.LastBeatTime+beatDuration) {
		c.state.MeasuredBeatDuration = now - c.state.LastBeatTime
		c.state.FilteredBeatDuration = smooth(c.state.FilteredBeatDuration, c.state.MeasuredBeatDuration)
		c.state.BeatBoundaryDesync = c.beatSyncDrift.Filtered()
	}
	c.state.LastBeatTime = now
	c.state.hasLastBeat = true

	return true
}

// Tick advances the schedulers to the current time. Hosts call it every frame.
func (c *Clock) Tick() {
	now := c.Now()

	if c.state.pulseRecalcAt > 0 && now >= c.state.pulseRecalcAt {
		c.state.pulseRecalcAt = 0
		c.doCalculatePulseTimestamps(now)
	}

	c.tickBeats(now)
	c.tickDivisions(now)
}

func (c *Clock) startBeats(now, barDuration float64, beats int) {
	if c.beats != nil {
		c.beats.Stop()
	}

	nominal := c.barDrift.CorrectedInterval(barDuration) / float64(beats)
	c.beats = NewBeatScheduler(c.beatDrift, now, nominal, beats)
	c.state.BeatDuration = nominal
	c.state.BeatsPerBar = beats

	c.tickBeats(now)
}

func (c *Clock) tickBeats(now float64) {
	if c.beats == nil {
		return
	}
	index, ok := c.beats.Tick(now)
	if !ok {
		return
	}

	c.state.BeatDesync = c.beatDrift.Last()
	c.state.FilteredBeatDesync = c.beatDrift.Filtered()
	c.events.emitBeat(c.beats.Nominal())

	if c.state.CurrentBar >= 0 {
		c.state.CurrentBeat = index % c.beatsFor(c.state.Current)
	}

	c.startDivisions(now, c.beats.Nominal())
}

// RequestSegment queues segment index in the sound engine. It returns false when that segment is
// already queued.
func (c *Clock) RequestSegment(index rhythm.Segment) bool {
	if !c.sequencer.RequestSegment(index) {
		logger := logger.GetProjectLogger()
		logger.WithField("segment", index).Debug("segment already queued")
		return false
	}
	c.segmentQueued(false)
	return true
}

// RequestNextSegment queues the segment after the pending one. notify is passed on to the sound
// engine and listeners so they can announce the change.
func (c *Clock) RequestNextSegment(notify bool) rhythm.Segment {
	c.sequencer.RequestNextSegment()
	c.segmentQueued(notify)
	return c.state.Pending
}

func (c *Clock) segmentQueued(notify bool) {
	logger := logger.GetProjectLogger()

	pending := c.sequencer.Pending()
	c.state.Pending = pending
	c.state.StarsThreshold += c.settings.StarsThresholdStep

	if c.song.IsRhythm(pending) && c.progress != nil {
		if err := c.progress.Save(c.song.Title, int(pending)); err != nil {
			logger.Warnf("could not save progress of %s: %v", c.song.Title, err)
		}
	}

	c.engine.SetMusicSegment(pending, c.msIntoTwoBarPeriod(), notify)

	logger.WithFields(logrus.Fields{
		"song":      c.song.Title,
		"segment":   c.song.SegmentName(pending),
		"threshold": c.state.StarsThreshold,
	}).Info("queuing music segment")

	c.events.emitSegmentQueued(pending, notify)
}

// OnStarReached is called when the player connects a star. Enough stars in a row, played well,
// move the music on to the next segment.
func (c *Clock) OnStarReached() {
	c.state.SuckLookahead = 1
	c.state.StarsConnected++

	if c.state.StarsConnected >= c.state.StarsThreshold &&
		c.performance.LongTermPerformance() >= c.settings.LongTermPerformanceGate {
		c.state.StarsConnected = 0
		c.RequestNextSegment(true)
	}
}

// OnFirstStarCreated starts the rhythm segments once the first constellation is ready.
func (c *Clock) OnFirstStarCreated() {
	if c.state.Current == rhythm.SegmentIntro {
		c.RequestNextSegment(false)
	}
}

// StartMusic starts the music event in the sound engine.
func (c *Clock) StartMusic() {
	c.engine.Play()
}

// StopMusic fades the music event out.
func (c *Clock) StopMusic() {
	c.engine.Stop(int(c.settings.StopFade / time.Millisecond))
}

// Begin plays the current song from its intro.
func (c *Clock) Begin() {
	c.StartMusic()
	if err := c.PlaySong(c.song.Title); err != nil {
		logger := logger.GetProjectLogger()
		logger.Errorf("could not play %s: %v", c.song.Title, err)
		return
	}
	c.RequestSegment(rhythm.SegmentIntro)
}

// PlaySong switches to the song with the given title. An empty title picks another song at
// random. A forced song always wins.
func (c *Clock) PlaySong(title string) error {
	logger := logger.GetProjectLogger()

	var next *rhythm.Song
	switch {
	case c.forced != nil:
		next = c.forced
	case title != "":
		next = c.findSong(title)
		if next == nil {
			return fmt.Errorf("%q: %w", title, ErrSongNotFound)
		}
	case len(c.songs) > 1:
		others := make([]*rhythm.Song, 0, len(c.songs)-1)
		for _, song := range c.songs {
			if song != c.song {
				others = append(others, song)
			}
		}
		next = others[c.rand.Intn(len(others))]
		logger.Infof("selecting another song to play: %s", next.Title)
	default:
		next = c.song
		logger.Infof("selecting %s again, it is the only song", next.Title)
	}

	if next != c.song {
		c.resetDrift()
	}
	c.selectSong(next)
	c.engine.SetSong(next.Title)
	return nil
}

// resetDrift forgets the desync measured against the previous song.
func (c *Clock) resetDrift() {
	c.barDrift.Reset()
	c.beatDrift.Reset()
	c.beatSyncDrift.Reset()
	c.state.BarDesync = 0
	c.state.FilteredBarDesync = 0
	c.state.BeatDesync = 0
	c.state.FilteredBeatDesync = 0
	c.state.BeatBoundaryDesync = 0
}

// StopCurrentSong sends the sound engine back to idle.
func (c *Clock) StopCurrentSong() {
	c.engine.SetSong("")
}

// AddSong makes song available to PlaySong. It returns false if a song with the same title is
// already known or its grids do not fit the clock's divisions.
func (c *Clock) AddSong(song *rhythm.Song) bool {
	if song == nil || collections.ListContainsElement(c.Songs(), song.Title) {
		return false
	}
	if err := c.checkSong(song); err != nil {
		logger := logger.GetProjectLogger()
		logger.Warnf("not adding %s: %v", song.Title, err)
		return false
	}
	c.songs = append(c.songs, song)
	return true
}

// checkSong verifies every grid of song is divided like the clock's beats.
func (c *Clock) checkSong(song *rhythm.Song) error {
	if song == nil {
		return nil
	}
	for _, rg := range song.Grids {
		if rg.Divisions != c.settings.Divisions {
			return fmt.Errorf("song %q grid %q has %d divisions, want %d: %w",
				song.Title, rg.Name, rg.Divisions, c.settings.Divisions, ErrDivisionMismatch)
		}
	}
	return nil
}

func (c *Clock) findSong(title string) *rhythm.Song {
	for _, song := range c.songs {
		if song.Title == title {
			return song
		}
	}
	return nil
}

func (c *Clock) selectSong(song *rhythm.Song) {
	if c.progress != nil {
		if saved, ok := c.progress.Load(song.Title); ok {
			song.SavedSegmentProgress = saved
		}
	}

	c.song = song
	c.sequencer.SetSong(song)
	c.state.Song = song.Title
	c.grid = nil
}

// gridFor returns the grid of seg, falling back to the first grid of the song.
func (c *Clock) gridFor(seg rhythm.Segment) *rhythm.RhythmGrid {
	rg, ok := c.song.Grid(seg)
	if !ok && c.song.IsRhythm(seg) && !c.warnedGrids[seg] {
		c.warnedGrids[seg] = true
		logger := logger.GetProjectLogger()
		logger.WithFields(logrus.Fields{
			"song":    c.song.Title,
			"segment": seg,
		}).Warn("no rhythm grid for segment, using the first one")
	}
	return rg
}

func (c *Clock) beatsFor(seg rhythm.Segment) int {
	if c.song.IsRhythm(seg) {
		if rg := c.gridFor(seg); rg != nil {
			return rg.BeatsPerBar
		}
	}
	return c.settings.DefaultBeatsPerBar
}

func (c *Clock) barsFor(seg rhythm.Segment) int {
	if c.song.IsRhythm(seg) {
		if rg := c.gridFor(seg); rg != nil {
			return rg.Bars
		}
	}
	return c.settings.IntroLoopBars
}

func (c *Clock) msIntoTwoBarPeriod() int {
	if !c.state.hasLastBar {
		return 0
	}
	return milliseconds(c.Now() - c.state.TwoBarStart)
}
