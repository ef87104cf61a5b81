package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/radar-sweep/internal/sweep"
)

const (
	WindowSize  = 512
	WindowTitle = "Radar Sweep - Space: Pause, C: Color, M: Mute, Esc/Q: Quit"

	// Sweep parameters
	SweepStep = 2
	SweepTPS  = 60

	// Ping parameters
	PingSampleRate = 44100
	PingFrequency  = 1200
	PingDuration   = 120 * time.Millisecond
	PingVolume     = -1.0
)

// Config holds the radar sweep configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Style  StyleConfig  `yaml:"style"`
	Audio  AudioConfig  `yaml:"audio"`
	HUD    bool         `yaml:"hud"`
}

// WindowConfig sets the initial window size and title.
type WindowConfig struct {
	Size  int    `yaml:"size"`
	Title string `yaml:"title"`
}

// SweepConfig controls the animation cadence. TPS 0 ties the cadence to the
// display refresh rate.
type SweepConfig struct {
	Step int `yaml:"step"`
	TPS  int `yaml:"tps"`
}

// StyleConfig holds colors as hex strings ("#rrggbb").
type StyleConfig struct {
	Background    string  `yaml:"background"`
	GradientStart string  `yaml:"gradient_start"`
	GradientEnd   string  `yaml:"gradient_end"`
	Stroke        string  `yaml:"stroke"`
	StrokeWidth   float32 `yaml:"stroke_width"`
}

// AudioConfig controls the ping played on each completed revolution.
type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Frequency  float64       `yaml:"frequency"`
	Duration   time.Duration `yaml:"duration"`
	Volume     float64       `yaml:"volume"` // log2 gain, 0 is unchanged
}

// DefaultConfig returns the reference look: gray-to-black sweep over a
// black reticle on white.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Size:  WindowSize,
			Title: WindowTitle,
		},
		Sweep: SweepConfig{
			Step: SweepStep,
			TPS:  SweepTPS,
		},
		Style: StyleConfig{
			Background:    "#ffffff",
			GradientStart: "#888888",
			GradientEnd:   "#000000",
			Stroke:        "#000000",
			StrokeWidth:   1,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: PingSampleRate,
			Frequency:  PingFrequency,
			Duration:   PingDuration,
			Volume:     PingVolume,
		},
		HUD: true,
	}
}

// Load reads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parse(data, nil)
}

// Override adjusts a freshly loaded config before validation, e.g. to apply
// command-line flags on top of the file.
type Override func(*Config)

func parse(data []byte, override Override) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks ranges and color syntax.
func (c *Config) Validate() error {
	if c.Window.Size <= 0 {
		return fmt.Errorf("invalid config: window.size must be positive, got %d", c.Window.Size)
	}
	if c.Sweep.Step == 0 || c.Sweep.Step <= -360 || c.Sweep.Step >= 360 {
		return fmt.Errorf("invalid config: sweep.step must be in (-360, 360) and non-zero, got %d", c.Sweep.Step)
	}
	if c.Sweep.TPS < 0 {
		return fmt.Errorf("invalid config: sweep.tps must not be negative, got %d", c.Sweep.TPS)
	}
	if c.Style.StrokeWidth <= 0 {
		return fmt.Errorf("invalid config: style.stroke_width must be positive, got %v", c.Style.StrokeWidth)
	}
	for name, hex := range map[string]string{
		"background":     c.Style.Background,
		"gradient_start": c.Style.GradientStart,
		"gradient_end":   c.Style.GradientEnd,
		"stroke":         c.Style.Stroke,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("invalid config: style.%s: %w", name, err)
		}
	}
	if c.Audio.Enabled {
		if c.Audio.SampleRate <= 0 || c.Audio.Frequency <= 0 || c.Audio.Duration <= 0 {
			return errors.New("invalid config: audio sample_rate, frequency and duration must be positive")
		}
	}
	return nil
}

// ParseColor converts a "#rrggbb" string into an opaque color.RGBA.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Resolve parses the style colors into a renderer style.
func (s StyleConfig) Resolve() (sweep.Style, error) {
	var (
		st  sweep.Style
		err error
	)
	if st.Background, err = ParseColor(s.Background); err != nil {
		return sweep.Style{}, fmt.Errorf("style.background: %w", err)
	}
	if st.GradientStart, err = ParseColor(s.GradientStart); err != nil {
		return sweep.Style{}, fmt.Errorf("style.gradient_start: %w", err)
	}
	if st.GradientEnd, err = ParseColor(s.GradientEnd); err != nil {
		return sweep.Style{}, fmt.Errorf("style.gradient_end: %w", err)
	}
	if st.Stroke, err = ParseColor(s.Stroke); err != nil {
		return sweep.Style{}, fmt.Errorf("style.stroke: %w", err)
	}
	st.StrokeWidth = s.StrokeWidth
	return st, nil
}
