package music

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robmorgan/stargazer/logger"
	"k8s.io/utils/clock"
)

// DefaultFrameInterval is how often a running Timeline ticks its clock.
const DefaultFrameInterval = 16 * time.Millisecond

// Timeline serialises everything that touches a Clock onto one goroutine. Callbacks from other
// goroutines are posted to an inbox that is drained at the start of every frame, before the
// clock is ticked.
type Timeline struct {
	clock    clock.Clock
	music    *Clock
	interval time.Duration
	inbox    chan func(*Clock)
	dropped  int64

	frameLock sync.Mutex
	onFrame   []func(*Clock)
}

// NewTimeline creates a timeline for c that ticks every interval and buffers up to inboxSize
// callbacks between frames.
func NewTimeline(clk clock.Clock, c *Clock, interval time.Duration, inboxSize int) *Timeline {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if inboxSize < 1 {
		inboxSize = 64
	}
	return &Timeline{
		clock:    clk,
		music:    c,
		interval: interval,
		inbox:    make(chan func(*Clock), inboxSize),
	}
}

// Post queues fn to run against the clock on the timeline goroutine. It never blocks and returns
// false when the inbox is full.
func (tl *Timeline) Post(fn func(*Clock)) bool {
	select {
	case tl.inbox <- fn:
		return true
	default:
		atomic.AddInt64(&tl.dropped, 1)
		return false
	}
}

// PostPlaylistSelect queues Clock.OnExternalPlaylistSelect.
func (tl *Timeline) PostPlaylistSelect(info PlaylistInfo) bool {
	return tl.Post(func(c *Clock) { c.OnExternalPlaylistSelect(info) })
}

// PostSyncEntry queues Clock.OnExternalSyncEntry.
func (tl *Timeline) PostSyncEntry() bool {
	return tl.Post(func(c *Clock) { c.OnExternalSyncEntry() })
}

// PostBar queues Clock.OnExternalBarBoundary.
func (tl *Timeline) PostBar(barDuration float64) bool {
	return tl.Post(func(c *Clock) { c.OnExternalBarBoundary(barDuration) })
}

// PostBeat queues Clock.OnExternalBeatBoundary.
func (tl *Timeline) PostBeat(beatDuration float64) bool {
	return tl.Post(func(c *Clock) { c.OnExternalBeatBoundary(beatDuration) })
}

// Dropped returns how many callbacks were lost to a full inbox.
func (tl *Timeline) Dropped() int64 {
	return atomic.LoadInt64(&tl.dropped)
}

// OnFrame registers fn to run on the timeline goroutine after every frame.
func (tl *Timeline) OnFrame(fn func(*Clock)) {
	tl.frameLock.Lock()
	defer tl.frameLock.Unlock()
	tl.onFrame = append(tl.onFrame, fn)
}

// Step runs one frame: every queued callback, one clock tick and the frame hooks. Hosts with a
// frame loop of their own call Step instead of Run.
func (tl *Timeline) Step() {
	for drained := false; !drained; {
		select {
		case fn := <-tl.inbox:
			fn(tl.music)
		default:
			drained = true
		}
	}

	tl.music.Tick()

	tl.frameLock.Lock()
	hooks := tl.onFrame
	tl.frameLock.Unlock()
	for _, fn := range hooks {
		fn(tl.music)
	}
}

// Run steps the timeline every frame interval until ctx is done.
func (tl *Timeline) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := logger.GetProjectLogger()
	logger.Infof("music timeline started, frame=%v", tl.interval)

	t := tl.clock.NewTimer(tl.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("music timeline shutdown")
			return
		case <-t.C():
			tl.Step()
			t.Reset(tl.interval)
		}
	}
}
