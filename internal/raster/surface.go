// Package raster replays sweep scripts onto an in-memory RGBA image, used for
// PNG snapshots and for checking rendered output without a window.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/iburimskiy/radar-sweep/internal/sweep"
)

// segmentsPerTurn controls how finely arcs and circles are flattened.
const segmentsPerTurn = 256

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

var _ sweep.Surface = (*Surface)(nil)

// Surface is a sweep.Surface backed by an *image.RGBA.
type Surface struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	xf    f64.Aff3
	stack []f64.Aff3
}

// NewSurface returns a size×size surface cleared to bg.
func NewSurface(size int, bg color.Color) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	z := vector.NewRasterizer(size, size)
	z.DrawOp = draw.Over
	return &Surface{img: img, z: z, xf: identity}
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Draw renders the frame for angle onto a new size×size surface.
func Draw(angle, size int, style sweep.Style) *Surface {
	s := NewSurface(size, style.Background)
	sweep.Render(angle, sweep.ComputeLayout(size, style), style).Replay(s)
	return s
}

// EncodePNG writes the current image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

func (s *Surface) Rotate(deg, cx, cy float64) {
	s.stack = append(s.stack, s.xf)
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	// translate(cx,cy) · rotate · translate(-cx,-cy)
	r := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	s.xf = mul(s.xf, r)
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		s.xf = identity
		return
	}
	s.xf = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) FillSector(rect sweep.BoundingSquare, start, sweepDeg float64, fill sweep.GradientSpec) {
	if sweepDeg <= 0 {
		return
	}
	if sweepDeg > 360 {
		sweepDeg = 360
	}
	n := sweep.ArcSegments(sweepDeg, segmentsPerTurn)

	s.reset()
	s.moveTo(rect.Center())
	for i := 0; i <= n; i++ {
		s.lineTo(rect.ArcPoint(start + sweepDeg*float64(i)/float64(n)))
	}
	s.z.ClosePath()

	inv := invert(s.xf)
	s.z.Draw(s.img, s.img.Bounds(), &sweepImage{grad: fill, inv: inv, bounds: s.img.Bounds()}, image.Point{})
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, width float32, clr color.RGBA) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	hw := float64(width) / 2
	nx, ny := -dy/l*hw, dx/l*hw

	s.reset()
	s.moveTo(x0+nx, y0+ny)
	s.lineTo(x1+nx, y1+ny)
	s.lineTo(x1-nx, y1-ny)
	s.lineTo(x0-nx, y0-ny)
	s.z.ClosePath()
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(clr), image.Point{})
}

// StrokeCircle fills the ring between r-w/2 and r+w/2. The inner contour
// runs the opposite way so the accumulated coverage cancels inside it.
func (s *Surface) StrokeCircle(cx, cy, r float64, width float32, clr color.RGBA) {
	hw := float64(width) / 2
	outer, inner := r+hw, math.Max(r-hw, 0)

	s.reset()
	s.circle(cx, cy, outer, false)
	if inner > 0 {
		s.circle(cx, cy, inner, true)
	}
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(clr), image.Point{})
}

func (s *Surface) circle(cx, cy, r float64, reverse bool) {
	for i := 0; i <= segmentsPerTurn; i++ {
		a := 2 * math.Pi * float64(i) / segmentsPerTurn
		if reverse {
			a = -a
		}
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			s.moveTo(x, y)
		} else {
			s.lineTo(x, y)
		}
	}
	s.z.ClosePath()
}

func (s *Surface) reset() {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
}

func (s *Surface) moveTo(x, y float64) {
	tx, ty := apply(s.xf, x, y)
	s.z.MoveTo(float32(tx), float32(ty))
}

func (s *Surface) lineTo(x, y float64) {
	tx, ty := apply(s.xf, x, y)
	s.z.LineTo(float32(tx), float32(ty))
}

// sweepImage is a procedural sweep gradient source. Device pixels
// are mapped back into the rotated frame before the angle is taken so the
// gradient turns with the sector.
type sweepImage struct {
	grad   sweep.GradientSpec
	inv    f64.Aff3
	bounds image.Rectangle
}

func (g *sweepImage) ColorModel() color.Model { return color.RGBAModel }

func (g *sweepImage) Bounds() image.Rectangle { return g.bounds }

func (g *sweepImage) At(x, y int) color.Color {
	fx, fy := apply(g.inv, float64(x)+0.5, float64(y)+0.5)
	return g.grad.ColorAtPoint(fx, fy)
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func invert(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		return identity
	}
	a, b := m[4]/det, -m[1]/det
	d, e := -m[3]/det, m[0]/det
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}
}
