package engine

import (
	"context"
	"sync"
	"time"

	"github.com/robmorgan/stargazer/logger"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// DefaultPollInterval is how often a running Simulator checks its metronome.
const DefaultPollInterval = 5 * time.Millisecond

// Simulator stands in for the sound engine. It plays a steady metronome, reports bars and beats
// to its sink and starts queued segments on the next bar, like the real engine does.
type Simulator struct {
	clock     clock.Clock
	metronome *rhythm.Metronome
	sink      Sink

	mu         sync.Mutex
	playing    bool
	song       string
	segment    rhythm.Segment
	queued     bool
	complexity int
	playlistID uint32
	lastBar    int64
	lastBeat   int64
}

// NewSimulator creates a simulator playing at tempo beats per minute.
func NewSimulator(clk clock.Clock, tempo float64, beatsPerBar int, sink Sink) *Simulator {
	return &Simulator{
		clock:     clk,
		metronome: rhythm.NewMetronome(clk, tempo, beatsPerBar),
		sink:      sink,
		segment:   rhythm.SegmentNone,
	}
}

// Connect sets the sink callbacks are sent to.
func (s *Simulator) Connect(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Metronome returns the timebase of the simulator.
func (s *Simulator) Metronome() *rhythm.Metronome {
	return s.metronome
}

func (s *Simulator) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		return
	}
	s.playing = true
	s.lastBar, s.lastBeat = 0, 0
	s.metronome.Restart()
}

func (s *Simulator) Stop(fadeMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logger.GetProjectLogger()
	logger.Debugf("simulated music stopped, fade=%dms", fadeMs)
	s.playing = false
}

func (s *Simulator) SetSong(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.song = title
}

// SetMusicSegment queues segment. It starts at the next bar.
func (s *Simulator) SetMusicSegment(segment rhythm.Segment, msIntoTwoBarPeriod int, notify bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"segment": segment,
		"ms":      msIntoTwoBarPeriod,
		"notify":  notify,
	}).Debug("simulated segment queued")

	s.segment = segment
	s.queued = true
}

func (s *Simulator) ChangeComplexity(level int, msIntoTwoBarPeriod int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complexity = level
}

// Song returns the title last set.
func (s *Simulator) Song() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.song
}

// Complexity returns the complexity level last set.
func (s *Simulator) Complexity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complexity
}

// Poll sends the callbacks for every bar and beat started since the last poll.
func (s *Simulator) Poll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing || s.sink == nil {
		return
	}

	if bar := s.metronome.Bar(); bar != s.lastBar {
		s.lastBar = bar
		if s.queued {
			s.queued = false
			s.playlistID++
			s.sink.PostPlaylistSelect(music.PlaylistInfo{
				PlayingID:  1,
				PlaylistID: s.playlistID,
				ItemCount:  1,
			})
			s.sink.PostSyncEntry()
		}
		s.sink.PostBar(s.metronome.BarDuration())
	}

	if beat := s.metronome.Beat(); beat != s.lastBeat {
		s.lastBeat = beat
		s.sink.PostBeat(s.metronome.BeatDuration())
	}
}

// Run polls the simulator until ctx is done.
func (s *Simulator) Run(ctx context.Context, wg *sync.WaitGroup, interval time.Duration) {
	defer wg.Done()

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger := logger.GetProjectLogger()
	logger.Infof("simulated sound engine started, tempo=%.1f", s.metronome.Tempo())

	t := s.clock.NewTimer(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("simulated sound engine shutdown")
			return
		case <-t.C():
			s.Poll()
			t.Reset(interval)
		}
	}
}
