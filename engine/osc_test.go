package engine

import (
	"errors"
	"testing"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	playlists []music.PlaylistInfo
	entries   int
	bars      []float64
	beats     []float64
	full      bool
}

func (s *recordingSink) PostPlaylistSelect(info music.PlaylistInfo) bool {
	s.playlists = append(s.playlists, info)
	return !s.full
}

func (s *recordingSink) PostSyncEntry() bool {
	s.entries++
	return !s.full
}

func (s *recordingSink) PostBar(d float64) bool {
	s.bars = append(s.bars, d)
	return !s.full
}

func (s *recordingSink) PostBeat(d float64) bool {
	s.beats = append(s.beats, d)
	return !s.full
}

func TestDispatchMessages(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.Dispatch(osc.NewMessage(AddressPlaylistSelect,
		int32(840238966), int32(31), int32(441850003), int32(1), int32(0), int32(0)))
	d.Dispatch(osc.NewMessage(AddressSyncEntry))
	d.Dispatch(osc.NewMessage(AddressSyncBar, float32(2)))
	d.Dispatch(osc.NewMessage(AddressSyncBeat, float32(0.5)))

	require.Len(t, sink.playlists, 1)
	assert.Equal(t, music.PlaylistInfo{EventID: 840238966, PlayingID: 31, PlaylistID: 441850003, ItemCount: 1}, sink.playlists[0])
	assert.Equal(t, 1, sink.entries)
	assert.Equal(t, []float64{2}, sink.bars)
	assert.Equal(t, []float64{0.5}, sink.beats)
}

func TestDispatchBundle(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	d := NewDispatcher(sink)

	inner := &osc.Bundle{Messages: []*osc.Message{osc.NewMessage(AddressSyncBeat, float64(0.5))}}
	bundle := &osc.Bundle{
		Messages: []*osc.Message{
			osc.NewMessage(AddressSyncEntry),
			osc.NewMessage(AddressSyncBar, int32(2)),
		},
		Bundles: []*osc.Bundle{inner},
	}
	d.Dispatch(bundle)
	d.Dispatch(nil)

	assert.Equal(t, 1, sink.entries)
	assert.Equal(t, []float64{2}, sink.bars)
	assert.Equal(t, []float64{0.5}, sink.beats)
}

func TestDispatchRejectsBadMessages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		msg  *osc.Message
	}{
		{"unknown address", osc.NewMessage("/stargazer/unknown")},
		{"bar without duration", osc.NewMessage(AddressSyncBar)},
		{"beat with a string", osc.NewMessage(AddressSyncBeat, "fast")},
		{"short playlist", osc.NewMessage(AddressPlaylistSelect, int32(1), int32(2))},
		{"playlist with floats", osc.NewMessage(AddressPlaylistSelect,
			float32(1), float32(2), float32(3), float32(4), float32(5), float32(6))},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			sink := &recordingSink{}
			_, err := NewDispatcher(sink).handle(testCase.msg)
			assert.Error(t, err)
			assert.Empty(t, sink.bars)
			assert.Empty(t, sink.beats)
			assert.Empty(t, sink.playlists)
		})
	}
}

func TestDispatchReportsFullSink(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{full: true}
	accepted, err := NewDispatcher(sink).handle(osc.NewMessage(AddressSyncBar, float32(2)))
	require.NoError(t, err)
	assert.False(t, accepted)
}

type recordingSender struct {
	sent []*osc.Message
	err  error
}

func (s *recordingSender) Send(packet osc.Packet) error {
	if msg, ok := packet.(*osc.Message); ok {
		s.sent = append(s.sent, msg)
	}
	return s.err
}

func TestOSCSoundEngineCommands(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	e := &OSCSoundEngine{client: sender}

	e.Play()
	e.SetSong("Horizon")
	e.SetMusicSegment(rhythm.SegmentFirst, 1250, true)
	e.ChangeComplexity(2, 500)
	e.Stop(3000)

	require.Len(t, sender.sent, 5)
	assert.Equal(t, AddressPlay, sender.sent[0].Address)
	assert.Empty(t, sender.sent[0].Arguments)
	assert.Equal(t, []interface{}{"Horizon"}, sender.sent[1].Arguments)
	assert.Equal(t, []interface{}{int32(1), int32(1250), true}, sender.sent[2].Arguments)
	assert.Equal(t, []interface{}{int32(2), int32(500)}, sender.sent[3].Arguments)
	assert.Equal(t, AddressStop, sender.sent[4].Address)
	assert.Equal(t, []interface{}{int32(3000)}, sender.sent[4].Arguments)
}

func TestOSCSoundEngineKeepsGoingOnSendErrors(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("connection refused")}
	e := &OSCSoundEngine{client: sender}

	e.Play()
	e.Stop(0)
	assert.Len(t, sender.sent, 2)
}
