package engine

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/stargazer/logger"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/sirupsen/logrus"
)

// Addresses of the callbacks the sound engine sends.
const (
	AddressPlaylistSelect = "/stargazer/playlist/select"
	AddressSyncEntry      = "/stargazer/sync/entry"
	AddressSyncBar        = "/stargazer/sync/bar"
	AddressSyncBeat       = "/stargazer/sync/beat"
)

// Addresses of the commands sent to the sound engine.
const (
	AddressPlay       = "/stargazer/music/play"
	AddressStop       = "/stargazer/music/stop"
	AddressSong       = "/stargazer/music/song"
	AddressSegment    = "/stargazer/music/segment"
	AddressComplexity = "/stargazer/music/complexity"
)

// Sink receives the callbacks of a sound engine. music.Timeline is the usual implementation.
type Sink interface {
	PostPlaylistSelect(info music.PlaylistInfo) bool
	PostSyncEntry() bool
	PostBar(barDuration float64) bool
	PostBeat(beatDuration float64) bool
}

// Dispatcher turns OSC callbacks from the sound engine into Sink calls.
type Dispatcher struct {
	sink Sink
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// NewServer creates an OSC server listening on addr for sound engine callbacks.
func NewServer(addr string, sink Sink) *osc.Server {
	return &osc.Server{Addr: addr, Dispatcher: NewDispatcher(sink)}
}

// Dispatch implements osc.Dispatcher. Bundles are unpacked in order.
func (d *Dispatcher) Dispatch(packet osc.Packet) {
	if packet == nil {
		return
	}

	switch packet := packet.(type) {
	case *osc.Message:
		d.dispatchMessage(packet)
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			d.dispatchMessage(msg)
		}
		for _, bundle := range packet.Bundles {
			d.Dispatch(bundle)
		}
	}
}

func (d *Dispatcher) dispatchMessage(msg *osc.Message) {
	logger := logger.GetProjectLogger()

	accepted, err := d.handle(msg)
	if err != nil {
		logger.WithFields(logrus.Fields{"address": msg.Address}).Warnf("bad sound engine message: %v", err)
		return
	}
	if !accepted {
		logger.WithFields(logrus.Fields{"address": msg.Address}).Warn("sound engine callback dropped, timeline is full")
	}
}

func (d *Dispatcher) handle(msg *osc.Message) (bool, error) {
	switch msg.Address {
	case AddressPlaylistSelect:
		var values [6]uint32
		for i := range values {
			v, err := uintArg(msg, i)
			if err != nil {
				return false, err
			}
			values[i] = v
		}
		return d.sink.PostPlaylistSelect(music.PlaylistInfo{
			EventID:    values[0],
			PlayingID:  values[1],
			PlaylistID: values[2],
			ItemCount:  values[3],
			Selection:  values[4],
			ItemDone:   values[5],
		}), nil

	case AddressSyncEntry:
		return d.sink.PostSyncEntry(), nil

	case AddressSyncBar:
		duration, err := floatArg(msg, 0)
		if err != nil {
			return false, err
		}
		return d.sink.PostBar(duration), nil

	case AddressSyncBeat:
		duration, err := floatArg(msg, 0)
		if err != nil {
			return false, err
		}
		return d.sink.PostBeat(duration), nil
	}

	return false, fmt.Errorf("unknown address")
}

func floatArg(msg *osc.Message, i int) (float64, error) {
	if i >= len(msg.Arguments) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := msg.Arguments[i].(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	}
	return 0, fmt.Errorf("argument %d is %T, want a number", i, msg.Arguments[i])
}

func uintArg(msg *osc.Message, i int) (uint32, error) {
	if i >= len(msg.Arguments) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := msg.Arguments[i].(type) {
	case int32:
		return uint32(v), nil
	case int64:
		return uint32(v), nil
	}
	return 0, fmt.Errorf("argument %d is %T, want an integer", i, msg.Arguments[i])
}

// Sender sends OSC packets. *osc.Client implements it.
type Sender interface {
	Send(packet osc.Packet) error
}

// OSCSoundEngine sends the clock's commands to a sound engine listening for OSC.
type OSCSoundEngine struct {
	client Sender
}

// NewOSCSoundEngine creates an engine sending to host:port over UDP.
func NewOSCSoundEngine(host string, port int) *OSCSoundEngine {
	return &OSCSoundEngine{client: osc.NewClient(host, port)}
}

func (e *OSCSoundEngine) Play() {
	e.send(osc.NewMessage(AddressPlay))
}

func (e *OSCSoundEngine) Stop(fadeMs int) {
	e.send(osc.NewMessage(AddressStop, int32(fadeMs)))
}

func (e *OSCSoundEngine) SetSong(title string) {
	e.send(osc.NewMessage(AddressSong, title))
}

func (e *OSCSoundEngine) SetMusicSegment(segment rhythm.Segment, msIntoTwoBarPeriod int, notify bool) {
	e.send(osc.NewMessage(AddressSegment, int32(segment), int32(msIntoTwoBarPeriod), notify))
}

func (e *OSCSoundEngine) ChangeComplexity(level int, msIntoTwoBarPeriod int) {
	e.send(osc.NewMessage(AddressComplexity, int32(level), int32(msIntoTwoBarPeriod)))
}

func (e *OSCSoundEngine) send(msg *osc.Message) {
	if err := e.client.Send(msg); err != nil {
		logger := logger.GetProjectLogger()
		logger.Errorf("could not send %s to the sound engine: %v", msg.Address, err)
	}
}
