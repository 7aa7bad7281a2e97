package main

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/nickysemenza/gola"
	"github.com/robmorgan/stargazer/config"
	"github.com/robmorgan/stargazer/engine"
	"github.com/robmorgan/stargazer/glow"
	"github.com/robmorgan/stargazer/logger"
	"github.com/robmorgan/stargazer/monitor"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/output"
	"github.com/robmorgan/stargazer/rhythm"
	"github.com/spf13/pflag"
	"k8s.io/utils/clock"
)

func main() {
	cfg := config.NewStargazerConfig()
	bindFlags(pflag.CommandLine, &cfg)
	pflag.Parse()

	if err := Run(context.Background(), cfg); err != nil {
		logger.GetProjectLogger().Errorf("stargazer stopped: %v", err)
		os.Exit(1)
	}
}

func bindFlags(fs *pflag.FlagSet, cfg *config.StargazerConfig) {
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address to receive sound engine callbacks on")
	fs.StringVar(&cfg.EngineHost, "engine-host", cfg.EngineHost, "host of the sound engine")
	fs.IntVar(&cfg.EnginePort, "engine-port", cfg.EnginePort, "OSC port of the sound engine")
	fs.BoolVar(&cfg.Simulate, "simulate", cfg.Simulate, "play a metronome instead of talking to a sound engine")
	fs.Float64Var(&cfg.Tempo, "tempo", cfg.Tempo, "tempo of the simulated engine in BPM")
	fs.IntVar(&cfg.BeatsPerBar, "beats-per-bar", cfg.BeatsPerBar, "beats per bar of the simulated engine")
	fs.StringVar(&cfg.SongsPath, "songs", cfg.SongsPath, "YAML song file, the built-in song is used when empty")
	fs.StringVar(&cfg.ForceSong, "song", cfg.ForceSong, "always play the song with this title")
	fs.StringVar(&cfg.ProgressPath, "progress", cfg.ProgressPath, "file to keep segment progress in")
	fs.StringVar(&cfg.OLAAddr, "ola", cfg.OLAAddr, "OLA daemon for DMX output, empty to disable")
	fs.DurationVar(&cfg.FrameInterval, "frame", cfg.FrameInterval, "interval between clock ticks")
	fs.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor, "show the terminal monitor")
}

// Run starts stargazer and blocks until interrupted
func Run(ctx context.Context, cfg config.StargazerConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	logger := logger.GetProjectLogger()
	if cfg.Monitor {
		// the monitor owns the terminal
		logger.SetOutput(io.Discard)
	}

	wg := sync.WaitGroup{}
	clk := clock.RealClock{}

	logger.Info("Loading songs...")
	songs, err := loadSongs(cfg)
	if err != nil {
		return err
	}

	var progress music.ProgressStore
	if cfg.ProgressPath != "" {
		store, err := config.NewFileProgressStore(cfg.ProgressPath)
		if err != nil {
			return err
		}
		progress = store
	}

	var (
		sound     music.SoundEngine
		simulator *engine.Simulator
	)
	if cfg.Simulate {
		logger.Infof("Simulating the sound engine at %.1f BPM...", cfg.Tempo)
		simulator = engine.NewSimulator(clk, cfg.Tempo, cfg.BeatsPerBar, nil)
		sound = simulator
	} else {
		logger.Infof("Sending sound engine commands to %s:%d...", cfg.EngineHost, cfg.EnginePort)
		sound = engine.NewOSCSoundEngine(cfg.EngineHost, cfg.EnginePort)
	}

	performance := &music.StaticPerformance{LongTerm: 1}
	c, err := music.New(clk, music.Config{
		Songs:       songs,
		ForceSong:   cfg.ForceSong,
		Settings:    cfg.Settings,
		Performance: performance,
		Engine:      sound,
		Progress:    progress,
	})
	if err != nil {
		return err
	}
	timeline := music.NewTimeline(clk, c, cfg.FrameInterval, 0)

	if simulator != nil {
		simulator.Connect(timeline)
		wg.Add(1)
		go simulator.Run(ctx, &wg, cfg.PollInterval)
	} else {
		conn, err := net.ListenPacket("udp", cfg.ListenAddr)
		if err != nil {
			return errors.WithStackTrace(err)
		}
		server := engine.NewServer(cfg.ListenAddr, timeline)
		go func() {
			<-ctx.Done()
			conn.Close()
		}()
		go func() {
			logger.Infof("Listening for sound engine callbacks on %s...", cfg.ListenAddr)
			if err := server.Serve(conn); err != nil && ctx.Err() == nil {
				logger.Errorf("OSC server stopped: %v", err)
			}
		}()
	}

	star, err := glow.NewStar(clk, cfg.Star.Base, cfg.Star.Peak)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	star.Attach(c.Events())

	// configure OLA for DMX output
	if cfg.OLAAddr != "" {
		logger.Info("Connecting to OLA...")
		client, err := gola.New(cfg.OLAAddr)
		if err != nil {
			logger.Errorf("could not connect to OLA: %v", err)
		} else {
			state := output.NewDMXState()
			timeline.OnFrame(func(*music.Clock) {
				writeStars(state, cfg.PatchedStars, star)
			})
			wg.Add(1)
			go output.SendDMXWorker(ctx, clk, client, cfg.OLATick, state, &wg)
		}
	}

	c.Begin()

	if cfg.Monitor {
		m := monitor.New(timeline, c, performance, star, cfg.FrameInterval)
		if err := tea.NewProgram(m).Start(); err != nil {
			logger.Errorf("monitor stopped: %v", err)
		}
	} else {
		wg.Add(1)
		go timeline.Run(ctx, &wg)

		// handle CTRL+C interrupt
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
	}

	logger.Println("shutting down stargazer")
	cancel()
	wg.Wait()
	c.StopMusic()
	return nil
}

func loadSongs(cfg config.StargazerConfig) ([]*rhythm.Song, error) {
	if cfg.SongsPath == "" {
		return config.DefaultSongs(), nil
	}
	return config.LoadSongs(cfg.SongsPath)
}

func writeStars(state *output.DMXState, stars []config.PatchedStar, star *glow.Star) {
	color := star.Color()
	for _, p := range stars {
		f := output.StarFixture{Universe: p.Universe, Address: p.Address}
		if err := f.Write(state, color); err != nil {
			logger.GetProjectLogger().Warnf("could not write %s: %v", p.Name, err)
		}
	}
}
