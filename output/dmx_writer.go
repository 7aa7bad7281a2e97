package output

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/stargazer/logger"
	"k8s.io/utils/clock"
)

// UniverseSize is the number of channels in a DMX512 universe.
const UniverseSize = 512

// DMXState holds the DMX512 values for each universe.
type DMXState struct {
	universes map[int][]byte
	lock      sync.Mutex
}

func NewDMXState() *DMXState {
	return &DMXState{universes: map[int][]byte{}}
}

// Set writes value to a 1-based channel.
func (s *DMXState) Set(universe, channel int, value byte) error {
	if channel < 1 || channel > UniverseSize {
		return fmt.Errorf("dmx channel (%d) not in range, universe=%d", channel, universe)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.initializeUniverse(universe)
	s.universes[universe][channel-1] = value
	return nil
}

// Get returns the value of a 1-based channel. Unknown universes and channels read as 0.
func (s *DMXState) Get(universe, channel int) byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	values, ok := s.universes[universe]
	if !ok || channel < 1 || channel > UniverseSize {
		return 0
	}
	return values[channel-1]
}

// Universes returns a copy of every universe written so far.
func (s *DMXState) Universes() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func (s *DMXState) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, UniverseSize)
	}
}

// StarFixture is an RGB light showing a star, patched at Address on Universe.
type StarFixture struct {
	Universe int
	Address  int
}

// Write sets the red, green and blue channels of the fixture to c.
func (f StarFixture) Write(s *DMXState, c colorful.Color) error {
	r, g, b := c.Clamped().RGB255()
	for i, v := range []byte{r, g, b} {
		if err := s.Set(f.Universe, f.Address+i, v); err != nil {
			return err
		}
	}
	return nil
}

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// SendDMXWorker sends OLA the current dmxState across all universes
func SendDMXWorker(ctx context.Context, clk clock.Clock, client OLAClient, tick time.Duration, state *DMXState, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	logger := logger.GetProjectLogger()

	t := clk.NewTimer(tick)
	defer t.Stop()
	logger.Debugf("dmx timer started at %v", clk.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info("SendDMXWorker shutdown")
			return ctx.Err()
		case <-t.C():
			for k, v := range state.Universes() {
				if _, err := client.SendDmx(k, v); err != nil {
					logger.Warnf("could not send universe %d to OLA: %v", k, err)
				}
			}
			t.Reset(tick)
		}
	}
}
