// Package game hosts the radar sweep in an ebiten window.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/radar-sweep/internal/config"
	"github.com/iburimskiy/radar-sweep/internal/sweep"
)

// Pinger plays the revolution ping. *audio.Pinger satisfies it.
type Pinger interface {
	Ping()
	SetMuted(muted bool)
	Muted() bool
	Level() float64
}

// Game is the ebiten host for the sweep. It implements sweep.Host: redraw
// requests mark the screen dirty and scheduled callbacks run on the next
// Update.
type Game struct {
	cfg    *config.Config
	style  sweep.Style
	logger *zap.Logger

	animator *sweep.Animator
	layouts  sweep.LayoutCache
	layout   sweep.Layout
	surface  screenSurface

	pinger  Pinger
	reloads <-chan *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	pending     []func()
	dirty       bool
	revolutions int
	started     time.Time
	hudDrawn    time.Time

	// state
	paused  bool
	lastErr error
}

// Option configures a Game.
type Option func(*Game)

// WithPinger enables the revolution ping.
func WithPinger(p Pinger) Option {
	return func(g *Game) { g.pinger = p }
}

// WithReloads applies configs received on ch while running.
func WithReloads(ch <-chan *config.Config) Option {
	return func(g *Game) { g.reloads = ch }
}

// New returns a game with the animator already started.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Game, error) {
	style, err := cfg.Style.Resolve()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		style:   style,
		logger:  logger,
		dirty:   true,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.layout, _ = g.layouts.Get(cfg.Window.Size, style)
	g.animator = sweep.NewAnimator(g, cfg.Sweep.Step)
	g.animator.Start(g.ctx)
	return g, nil
}

// RequestRedraw implements sweep.Host.
func (g *Game) RequestRedraw() { g.dirty = true }

// ScheduleNext implements sweep.Host.
func (g *Game) ScheduleNext(fn func()) { g.pending = append(g.pending, fn) }

// Close stops the animation cadence.
func (g *Game) Close() {
	g.animator.Stop()
	g.cancel()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.toggleMute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := g.pickColor(); err != nil {
			g.lastErr = err
			g.logger.Warn("Color picker failed", zap.Error(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}

	return g.step()
}

// step runs one host turn: pending reloads, the callbacks scheduled during
// the previous turn, and the ping for any completed revolution.
func (g *Game) step() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}

	g.drainReloads()

	pending := g.pending
	g.pending = nil
	for _, fn := range pending {
		fn()
	}

	if rev := g.animator.Revolutions(); rev != g.revolutions {
		g.revolutions = rev
		if g.pinger != nil {
			g.pinger.Ping()
		}
	}
	// Keep repainting while the ping pulse fades.
	if g.pinger != nil && g.pinger.Level() > 0 {
		g.dirty = true
	}
	// The HUD uptime ticks even while the sweep is paused.
	if g.cfg.HUD && time.Since(g.hudDrawn) >= time.Second {
		g.dirty = true
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.dirty {
		return
	}
	g.dirty = false

	screen.Fill(g.style.Background)

	g.surface.reset(screen)
	sweep.Render(g.animator.Angle(), g.layout, g.style).Replay(&g.surface)

	g.drawPulse(screen)
	if g.cfg.HUD {
		g.drawHUD(screen)
	}
}

// drawPulse overlays the outer ring with a halo that follows the ping level.
func (g *Game) drawPulse(screen *ebiten.Image) {
	if g.pinger == nil {
		return
	}
	level := g.pinger.Level()
	if level <= 0 {
		return
	}
	c := float32(g.layout.Gradient.CX)
	width := g.style.StrokeWidth + float32(6*level)
	vector.StrokeCircle(screen, c, float32(g.layout.Gradient.CY), c, width, withAlpha(g.style.Stroke, level), true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	status := fmt.Sprintf("angle %3d deg  rev %d  up %s",
		g.animator.Angle(), g.animator.Revolutions(), formatDuration(time.Since(g.started)))
	if g.paused {
		status += "  [paused]"
	}
	if g.pinger != nil && g.pinger.Muted() {
		status += "  [muted]"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
	g.hudDrawn = time.Now()
}

// Layout keeps the surface square, sized by the window width.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := outsideWidth
	if size <= 0 {
		size = g.cfg.Window.Size
	}
	g.relayout(size)
	return size, size
}

func (g *Game) relayout(size int) {
	layout, changed := g.layouts.Get(size, g.style)
	if changed {
		g.layout = layout
		g.dirty = true
	}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.animator.Stop()
	} else {
		g.animator.Start(g.ctx)
	}
	g.dirty = true
}

func (g *Game) toggleMute() {
	if g.pinger == nil {
		return
	}
	g.pinger.SetMuted(!g.pinger.Muted())
	g.dirty = true
}

// pickColor lets the user choose the color the sweep fades into.
func (g *Game) pickColor() error {
	c, err := zenity.SelectColor(
		zenity.Title("Sweep Color"),
		zenity.Color(g.style.GradientEnd),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	next := *g.cfg
	next.Style.GradientEnd = config.FormatColor(c)
	g.logger.Info("Sweep color changed", zap.String("color", next.Style.GradientEnd))
	return g.apply(&next)
}

func (g *Game) drainReloads() {
	if g.reloads == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-g.reloads:
			if !ok {
				g.reloads = nil
				return
			}
			if err := g.apply(cfg); err != nil {
				g.lastErr = err
				g.logger.Warn("Rejected config reload", zap.Error(err))
				continue
			}
			g.logger.Info("Applied config reload",
				zap.Int("step", cfg.Sweep.Step),
				zap.Int("tps", cfg.Sweep.TPS))
		default:
			return
		}
	}
}

// apply swaps in a new config. Window size and audio settings take effect
// on restart only.
func (g *Game) apply(cfg *config.Config) error {
	style, err := cfg.Style.Resolve()
	if err != nil {
		return err
	}
	if cfg.Sweep.TPS != g.cfg.Sweep.TPS {
		ApplyTPS(cfg.Sweep.TPS)
	}
	g.animator.SetStep(cfg.Sweep.Step)
	g.style = style
	g.cfg = cfg
	g.relayout(g.layout.Size)
	g.dirty = true
	g.lastErr = nil
	return nil
}

// ApplyTPS sets the update rate. 0 runs one update per rendered frame.
func ApplyTPS(tps int) {
	if tps <= 0 {
		ebiten.SetTPS(ebiten.SyncWithFPS)
		return
	}
	ebiten.SetTPS(tps)
}
