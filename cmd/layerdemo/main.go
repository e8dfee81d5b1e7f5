package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/layerterm/audio"
	"github.com/lixenwraith/layerterm/config"
	"github.com/lixenwraith/layerterm/lifecycle"
	"github.com/lixenwraith/layerterm/render"
	"github.com/lixenwraith/layerterm/status"
	"github.com/lixenwraith/layerterm/terminal"
)

var (
	configFlag   = flag.String("config", "layerterm.toml", "Path to TOML config")
	colorFlag    = flag.String("color", "", "Color mode: auto, truecolor, 256 (overrides config)")
	surfaceFlag  = flag.String("surface", "", "Output surface: auto, screen, stream (overrides config)")
	debugFlag    = flag.Bool("debug", false, "Write debug logs under ./logs")
	audioFlag    = flag.Bool("audio", false, "Enable audio cues (overrides config)")
	profileFlag  = flag.String("profile", "", "Profile mode: cpu, mem")
	durationFlag = flag.Duration("duration", 0, "Exit after this long; 0 runs until quit")
)

func main() {
	// Panic recovery: restore the terminal even if a subsystem crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mLAYERDEMO CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "layerdemo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logFile := setupLogging(cfg.Logging)
	logger := newLogger(logFile, cfg.Logging)
	defer func() {
		logger.Sync()
		if logFile != nil {
			logFile.Close()
		}
	}()

	fg, bg, err := cfg.Render.Colors()
	if err != nil {
		return err
	}
	registry := status.NewRegistry()

	surface, screen, closeSurface, err := openSurface(cfg.Render)
	if err != nil {
		return err
	}
	width, height := surface.Size()
	registry.Labels.Get("render.surface").Store(surfaceName(screen))
	logger.Info("surface ready",
		zap.String("surface", surfaceName(screen)),
		zap.Int("width", width),
		zap.Int("height", height))

	camW, camH := cfg.Camera.Width, cfg.Camera.Height
	if camW == 0 || camH == 0 {
		camW, camH = width, height
	}

	root := lifecycle.New()
	if *durationFlag > 0 {
		root = lifecycle.NewWithTTL(*durationFlag)
	}
	events := make(chan terminal.Event, 8)

	worker := render.NewWorker(surface,
		render.WithLogger(logger.Named("render")),
		render.WithRegistry(registry),
		render.WithFrameInterval(cfg.Render.FrameInterval),
		render.WithQueueSize(cfg.Render.QueueSize),
		render.WithLayerCapacity(cfg.Render.LayerCapacity),
		render.WithCamera(camW, camH, cfg.Camera.Depth),
		render.WithColors(fg, bg),
		render.WithEvents(events),
	)

	player, closeAudio := openAudio(cfg.Audio, registry, logger)

	d := newDemo(worker.Sender(root), player, registry, width, height)
	d.reset()

	var g errgroup.Group
	g.Go(func() error { return worker.Run(root) })
	g.Go(func() error { return followWorker(root, events, d, logger) })
	g.Go(func() error { return waitSignal(root, logger) })
	if screen != nil {
		g.Go(func() error { return pumpInput(root, screen, d, logger) })
	} else {
		g.Go(func() error { return watchResize(root, int(os.Stdout.Fd()), d) })
	}
	if player != nil {
		g.Go(func() error {
			// Losing audio is not fatal to rendering
			if err := player.Run(root); err != nil {
				logger.Warn("audio stopped", zap.Error(err))
			}
			return nil
		})
	}

	runErr := g.Wait()
	root.Cancel()
	logger.Info("shutdown",
		zap.Int64("frames", registry.Counter(render.MetricFrames)),
		zap.Int64("commands", registry.Counter(render.MetricCommands)))

	return multierr.Combine(runErr, closeSurface(), closeAudio())
}

func applyFlags(cfg *config.Config) {
	if *colorFlag != "" {
		cfg.Render.ColorMode = *colorFlag
	}
	if *surfaceFlag != "" {
		cfg.Render.Surface = *surfaceFlag
	}
	if *debugFlag {
		cfg.Logging.Debug = true
	}
	if *audioFlag {
		cfg.Audio.Enabled = true
	}
}

// openSurface picks the tcell screen for interactive terminals, else the ANSI stream
// screen is nil in stream mode
func openSurface(cfg config.RenderConfig) (render.Surface, tcell.Screen, func() error, error) {
	mode := strings.ToLower(cfg.Surface)
	if mode == "auto" {
		mode = "stream"
		if terminal.IsInteractive(os.Stdout) && terminal.IsInteractive(os.Stdin) {
			mode = "screen"
		}
	}

	if mode == "screen" {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, nil, nil, fmt.Errorf("init screen: %w", err)
		}
		screen.HideCursor()
		s := terminal.NewScreenSurface(screen)
		return s, screen, s.Close, nil
	}

	width, height := terminal.SizeOf(os.Stdout)
	s := terminal.NewStreamSurface(os.Stdout, terminal.ParseColorMode(cfg.ColorMode), width, height)
	return s, nil, s.Close, nil
}

func surfaceName(screen tcell.Screen) string {
	if screen != nil {
		return "screen"
	}
	return "stream"
}

// openAudio starts the playback backend; any failure leaves the demo silent
func openAudio(cfg config.AudioConfig, registry *status.Registry, logger *zap.Logger) (*audio.Player, func() error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop
	}

	backend, err := audio.DetectBackend(cfg.SampleRate)
	if err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil, noop
	}
	pipe, err := backend.Start()
	if err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil, noop
	}

	acfg := audio.DefaultConfig()
	acfg.SampleRate = cfg.SampleRate
	acfg.MasterVolume = cfg.MasterVolume
	logger.Info("audio backend", zap.String("name", backend.Name))

	return audio.NewPlayer(pipe, acfg,
		audio.WithLogger(logger.Named("audio")),
		audio.WithRegistry(registry),
	), pipe.Close
}

// waitSignal cancels root on SIGINT or SIGTERM
func waitSignal(root lifecycle.Context, logger *zap.Logger) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		logger.Info("signal received", zap.Stringer("signal", s))
		root.Cancel()
	case <-root.Done(pollInterval):
	}
	return nil
}
