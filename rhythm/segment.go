package rhythm

import "fmt"

// Segment identifies a section of a song. Segments run None -> Intro -> 1..N (looping) and a
// song relative Outro at N+1.
type Segment int

const (
	SegmentNone  Segment = -1
	SegmentIntro Segment = 0

	// SegmentFirst is the first rhythm segment, where a song loops back to after its last one.
	SegmentFirst Segment = 1
)

// IsRhythm reports whether the segment is past the intro. The Outro is song relative, so use
// Song.IsRhythm to tell whether a segment is driven by a rhythm grid.
func (s Segment) IsRhythm() bool {
	return s >= SegmentFirst
}

func (s Segment) String() string {
	switch {
	case s == SegmentNone:
		return "None"
	case s == SegmentIntro:
		return "Intro"
	case s < SegmentNone:
		return fmt.Sprintf("Segment(%d)", int(s))
	default:
		return fmt.Sprintf("Segment %d", int(s))
	}
}
