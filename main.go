package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/radar-sweep/internal/audio"
	"github.com/iburimskiy/radar-sweep/internal/config"
	"github.com/iburimskiy/radar-sweep/internal/game"
	"github.com/iburimskiy/radar-sweep/internal/raster"
)

var (
	configPath string
	verbose    bool
	size       int
	tps        int
	step       int
	noAudio    bool
	noWatch    bool

	snapshotAngle int
	snapshotOut   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "radar-sweep",
	Short: "Animated radar sweep display",
	Long: `Draws a rotating sweep-gradient sector over a fixed radar reticle.

Keys: Space pauses, C picks the sweep color, M mutes the ping, Esc/Q quits.
The config file is watched and reloaded while the window is open.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Render a single frame to a PNG file",
	Example: `  radar-sweep snapshot --angle 90 --size 200 --out radar.png`,
	Args:    cobra.NoArgs,
	RunE:    runSnapshot,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config already exists: %s", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		logger.Info("Wrote default config", zap.String("path", configPath))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "radar.yaml", "path to the YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.IntVar(&size, "size", 0, "side length of the square surface in pixels (overrides config)")
	pf.IntVar(&step, "step", 0, "degrees advanced per tick (overrides config)")

	rootCmd.Flags().IntVar(&tps, "tps", -1, "ticks per second, 0 syncs with the display (overrides config)")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable the revolution ping")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file on change")

	snapshotCmd.Flags().IntVar(&snapshotAngle, "angle", 90, "sweep angle in degrees")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "radar.png", "output PNG path")

	rootCmd.AddCommand(snapshotCmd, initCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flagOverrides(cmd)(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagOverrides copies the flags set on the command line into a config. It
// runs on the initial load and again on every hot reload.
func flagOverrides(cmd *cobra.Command) config.Override {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if flags.Changed("size") {
			cfg.Window.Size = size
		}
		if flags.Changed("step") {
			cfg.Sweep.Step = step
		}
		if flags.Changed("tps") {
			cfg.Sweep.TPS = tps
		}
		if flags.Changed("no-audio") && noAudio {
			cfg.Audio.Enabled = false
		}
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Debug("Loaded config", zap.String("path", configPath), zap.Any("config", cfg))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var opts []game.Option
	if cfg.Audio.Enabled {
		p, err := audio.NewPinger(cfg.Audio)
		if err != nil {
			logger.Warn("Audio unavailable, running silently", zap.Error(err))
		} else {
			defer p.Close()
			opts = append(opts, game.WithPinger(p))
		}
	}
	if !noWatch {
		if _, err := os.Stat(configPath); err == nil {
			reloads, err := config.Watch(ctx, configPath, logger, flagOverrides(cmd))
			if err != nil {
				logger.Warn("Config hot reload disabled", zap.Error(err))
			} else {
				opts = append(opts, game.WithReloads(reloads))
			}
		}
	}

	g, err := game.New(ctx, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Window.Size, cfg.Window.Size)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	game.ApplyTPS(cfg.Sweep.TPS)

	logger.Info("Starting radar sweep",
		zap.Int("size", cfg.Window.Size),
		zap.Int("step", cfg.Sweep.Step),
		zap.Int("tps", cfg.Sweep.TPS))

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	style, err := cfg.Style.Resolve()
	if err != nil {
		return err
	}

	angle := ((snapshotAngle % 360) + 360) % 360
	surface := raster.Draw(angle, cfg.Window.Size, style)

	if dir := filepath.Dir(snapshotOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(snapshotOut)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := surface.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	logger.Info("Wrote snapshot",
		zap.String("path", snapshotOut),
		zap.Int("angle", angle),
		zap.Int("size", cfg.Window.Size))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
