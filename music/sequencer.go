package music

import "github.com/robmorgan/stargazer/rhythm"

// Transition describes a committed change of segment.
type Transition struct {
	From rhythm.Segment
	To   rhythm.Segment
}

// SegmentSequencer tracks which segment is playing and which one has been queued. Segments only
// move forward, looping from the last rhythm segment back to the first.
type SegmentSequencer struct {
	song    *rhythm.Song
	current rhythm.Segment
	pending rhythm.Segment
}

// NewSegmentSequencer creates a sequencer for song with nothing playing.
func NewSegmentSequencer(song *rhythm.Song) *SegmentSequencer {
	return &SegmentSequencer{
		song:    song,
		current: rhythm.SegmentNone,
		pending: rhythm.SegmentNone,
	}
}

// Current returns the segment the sound engine has confirmed.
func (sq *SegmentSequencer) Current() rhythm.Segment {
	return sq.current
}

// Pending returns the most recently queued segment.
func (sq *SegmentSequencer) Pending() rhythm.Segment {
	return sq.pending
}

// SetSong switches the song used for wrapping and progress.
func (sq *SegmentSequencer) SetSong(song *rhythm.Song) {
	sq.song = song
}

// RequestSegment queues index. Indices past the outro loop back to the first rhythm segment.
// It returns false when index, after looping, is already pending or is not a playable segment.
func (sq *SegmentSequencer) RequestSegment(index rhythm.Segment) bool {
	if index < rhythm.SegmentIntro {
		return false
	}

	index = sq.wrap(index)
	if index == sq.pending {
		return false
	}

	sq.queue(index)
	return true
}

// RequestNextSegment queues the segment after the pending one. Leaving the intro resumes from
// the song's saved progress when there is any. The last rhythm segment, and the outro, are
// followed by the first rhythm segment.
func (sq *SegmentSequencer) RequestNextSegment() rhythm.Segment {
	if sq.current == rhythm.SegmentIntro && sq.song.HasProgress() {
		sq.queue(sq.wrap(rhythm.Segment(sq.song.SavedSegmentProgress)))
		return sq.pending
	}

	next := sq.pending + 1
	if next >= sq.song.Outro() {
		next = rhythm.SegmentFirst
	}
	sq.queue(next)
	return sq.pending
}

// OnSyncEntry commits the pending segment once the sound engine has started it.
func (sq *SegmentSequencer) OnSyncEntry() (Transition, bool) {
	if sq.pending == sq.current {
		return Transition{}, false
	}

	tr := Transition{From: sq.current, To: sq.pending}
	sq.current = sq.pending
	return tr, true
}

func (sq *SegmentSequencer) wrap(index rhythm.Segment) rhythm.Segment {
	if index > sq.song.Outro() {
		return rhythm.SegmentFirst
	}
	return index
}

func (sq *SegmentSequencer) queue(index rhythm.Segment) {
	sq.pending = index

	// only rhythm segments are stored, so resuming skips the intro
	if sq.song.IsRhythm(index) {
		sq.song.SavedSegmentProgress = int(index)
	}
}
