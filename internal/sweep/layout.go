package sweep

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style is the fixed look of the display. It is a plain value; renderers
// never mutate it.
type Style struct {
	Background    color.RGBA
	GradientStart color.RGBA
	GradientEnd   color.RGBA
	Stroke        color.RGBA
	StrokeWidth   float32
}

// BoundingSquare is the square that inscribes the reticle.
type BoundingSquare struct {
	X0, Y0, X1, Y1 float64
}

// Center returns the midpoint of the square.
func (b BoundingSquare) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Side returns the side length.
func (b BoundingSquare) Side() float64 { return b.X1 - b.X0 }

// ArcPoint returns the point deg degrees around the circle inscribed in b,
// measured clockwise on screen from the positive x axis.
func (b BoundingSquare) ArcPoint(deg float64) (float64, float64) {
	cx, cy := b.Center()
	r := b.Side() / 2
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return cx + r*cos, cy + r*sin
}

// ArcSegments returns how many chords flatten an arc of sweep degrees when a
// full turn uses perTurn chords. A non-positive sweep needs none.
func ArcSegments(sweep float64, perTurn int) int {
	if sweep <= 0 || perTurn <= 0 {
		return 0
	}
	return int(math.Ceil(sweep / 360 * float64(perTurn)))
}

// GradientSpec describes a sweep gradient: the color runs from Start at 0
// degrees to End at 360 degrees around (CX, CY), measured clockwise in
// screen coordinates from the positive x axis of the frame it is drawn in.
type GradientSpec struct {
	CX, CY     float64
	Start, End color.RGBA
}

// ColorAt returns the gradient color at deg degrees. Values outside
// [0, 360) are wrapped.
func (g GradientSpec) ColorAt(deg float64) color.RGBA {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return lerpRGBA(g.Start, g.End, deg/360)
}

// ColorAtPoint returns the gradient color for a point in the gradient's
// frame.
func (g GradientSpec) ColorAtPoint(x, y float64) color.RGBA {
	if x == g.CX && y == g.CY {
		return g.Start
	}
	return g.ColorAt(math.Atan2(y-g.CY, x-g.CX) * 180 / math.Pi)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.RGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}

// Layout bundles everything derived from the measured size.
type Layout struct {
	Size     int
	Square   BoundingSquare
	Gradient GradientSpec
}

// ComputeLayout derives the bounding square and gradient for a square
// surface of side size. The center uses integer halves so odd sizes land on
// the same pixel grid as the host's layout.
func ComputeLayout(size int, style Style) Layout {
	if size < 0 {
		size = 0
	}
	c := float64(size / 2)
	return Layout{
		Size:   size,
		Square: BoundingSquare{X0: 0, Y0: 0, X1: float64(size), Y1: float64(size)},
		Gradient: GradientSpec{
			CX:    c,
			CY:    c,
			Start: style.GradientStart,
			End:   style.GradientEnd,
		},
	}
}

// LayoutCache recomputes the layout only when the size or style changes.
type LayoutCache struct {
	layout Layout
	style  Style
	valid  bool
}

// Get returns the layout for size and style and reports whether it had to
// be recomputed.
func (c *LayoutCache) Get(size int, style Style) (Layout, bool) {
	if c.valid && c.layout.Size == size && c.style == style {
		return c.layout, false
	}
	c.layout = ComputeLayout(size, style)
	c.style = style
	c.valid = true
	return c.layout, true
}
