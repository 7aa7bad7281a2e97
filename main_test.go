package main

import (
	"testing"
	"time"

	"github.com/robmorgan/stargazer/config"
	"github.com/robmorgan/stargazer/glow"
	"github.com/robmorgan/stargazer/output"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestBindFlags(t *testing.T) {
	t.Parallel()

	cfg := config.NewStargazerConfig()
	fs := pflag.NewFlagSet("stargazer", pflag.ContinueOnError)
	bindFlags(fs, &cfg)

	require.NoError(t, fs.Parse([]string{"--simulate", "--tempo=96", "--song", "Starlight", "--frame=10ms", "--ola="}))
	assert.True(t, cfg.Simulate)
	assert.Equal(t, 96.0, cfg.Tempo)
	assert.Equal(t, "Starlight", cfg.ForceSong)
	assert.Equal(t, 10*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, "", cfg.OLAAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadSongsDefaultsToBuiltIn(t *testing.T) {
	t.Parallel()

	songs, err := loadSongs(config.NewStargazerConfig())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Starlight", songs[0].Title)
}

func TestWriteStars(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	star, err := glow.NewStar(fc, "#102030", "#ffffff")
	require.NoError(t, err)

	state := output.NewDMXState()
	stars := []config.PatchedStar{{Name: "a", Universe: 1, Address: 1}, {Name: "b", Universe: 2, Address: 10}}
	writeStars(state, stars, star)

	assert.Equal(t, byte(0x10), state.Get(1, 1))
	assert.Equal(t, byte(0x20), state.Get(1, 2))
	assert.Equal(t, byte(0x30), state.Get(1, 3))
	assert.Equal(t, byte(0x30), state.Get(2, 12))
}
