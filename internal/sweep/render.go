package sweep

import "image/color"

// Surface is a drawing target a Script is replayed against. Coordinates are
// in pixels with y pointing down; angles are degrees, clockwise on screen.
type Surface interface {
	// Rotate pushes the current transform and rotates the frame by deg
	// degrees about (cx, cy).
	Rotate(deg, cx, cy float64)
	// Restore pops the transform pushed by the last Rotate.
	Restore()
	// FillSector fills the pie slice of the circle inscribed in rect from
	// start through start+sweep degrees, shaded by fill.
	FillSector(rect BoundingSquare, start, sweep float64, fill GradientSpec)
	// StrokeLine draws a straight segment of the given width.
	StrokeLine(x0, y0, x1, y1 float64, width float32, clr color.RGBA)
	// StrokeCircle outlines the circle of radius r about (cx, cy).
	StrokeCircle(cx, cy, r float64, width float32, clr color.RGBA)
}

// Op is one drawing instruction.
type Op interface {
	apply(s Surface)
}

// Rotate turns everything drawn until the matching Restore about (CX, CY).
type Rotate struct {
	Degrees float64
	CX, CY  float64
}

// Restore undoes the most recent Rotate.
type Restore struct{}

// Sector fills a gradient pie slice of the circle inscribed in Rect.
type Sector struct {
	Rect  BoundingSquare
	Start float64
	Sweep float64
	Fill  GradientSpec
}

// Line is a stroked segment.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float32
	Color          color.RGBA
}

// Circle is a stroked ring.
type Circle struct {
	CX, CY, R float64
	Width     float32
	Color     color.RGBA
}

func (o Rotate) apply(s Surface) { s.Rotate(o.Degrees, o.CX, o.CY) }
func (Restore) apply(s Surface) { s.Restore() }
func (o Sector) apply(s Surface) { s.FillSector(o.Rect, o.Start, o.Sweep, o.Fill) }
func (o Line) apply(s Surface) { s.StrokeLine(o.X0, o.Y0, o.X1, o.Y1, o.Width, o.Color) }
func (o Circle) apply(s Surface) { s.StrokeCircle(o.CX, o.CY, o.R, o.Width, o.Color) }

// Script is an ordered list of drawing instructions.
type Script []Op

// Replay issues every instruction against s in order.
func (sc Script) Replay(s Surface) {
	for _, op := range sc {
		op.apply(s)
	}
}

// Render builds the frame for angle: the sector is drawn in a frame rotated
// by angle, then the crosshair and rings are drawn unrotated on top so they
// stay fixed while the sector turns.
func Render(angle int, layout Layout, style Style) Script {
	sq := layout.Square
	cx, cy := layout.Gradient.CX, layout.Gradient.CY
	deg := float64(angle)

	return Script{
		Rotate{Degrees: deg, CX: cx, CY: cy},
		Sector{Rect: sq, Start: 0, Sweep: deg, Fill: layout.Gradient},
		Restore{},

		Line{X0: sq.X0, Y0: cy, X1: sq.X1, Y1: cy, Width: style.StrokeWidth, Color: style.Stroke},
		Line{X0: cx, Y0: sq.Y0, X1: cx, Y1: sq.Y1, Width: style.StrokeWidth, Color: style.Stroke},

		Circle{CX: cx, CY: cy, R: cx / 2, Width: style.StrokeWidth, Color: style.Stroke},
		Circle{CX: cx, CY: cy, R: cx, Width: style.StrokeWidth, Color: style.Stroke},
	}
}
