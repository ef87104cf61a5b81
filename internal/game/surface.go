package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/radar-sweep/internal/sweep"
)

// segmentsPerTurn controls how finely the sector is tessellated.
const segmentsPerTurn = 128

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// screenSurface replays sweep scripts onto an ebiten image.
type screenSurface struct {
	dst   *ebiten.Image
	geo   ebiten.GeoM
	stack []ebiten.GeoM

	vertices []ebiten.Vertex
	indices  []uint16
}

var _ sweep.Surface = (*screenSurface)(nil)

func (s *screenSurface) reset(dst *ebiten.Image) {
	s.dst = dst
	s.geo.Reset()
	s.stack = s.stack[:0]
}

func (s *screenSurface) Rotate(deg, cx, cy float64) {
	s.stack = append(s.stack, s.geo)
	var r ebiten.GeoM
	r.Translate(-cx, -cy)
	r.Rotate(deg * math.Pi / 180)
	r.Translate(cx, cy)
	r.Concat(s.geo)
	s.geo = r
}

func (s *screenSurface) Restore() {
	if len(s.stack) == 0 {
		s.geo.Reset()
		return
	}
	s.geo = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *screenSurface) FillSector(rect sweep.BoundingSquare, start, sweepDeg float64, fill sweep.GradientSpec) {
	s.vertices, s.indices = appendFan(s.vertices[:0], s.indices[:0], s.geo, rect, start, sweepDeg, fill)
	if len(s.indices) == 0 {
		return
	}
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

// appendFan tessellates the slice into a fan of triangles mapped through
// geo. Each triangle is shaded with the gradient color at its mid angle so
// the sweep gradient survives per-vertex interpolation.
func appendFan(vertices []ebiten.Vertex, indices []uint16, geo ebiten.GeoM, rect sweep.BoundingSquare, start, sweepDeg float64, fill sweep.GradientSpec) ([]ebiten.Vertex, []uint16) {
	if sweepDeg > 360 {
		sweepDeg = 360
	}
	n := sweep.ArcSegments(sweepDeg, segmentsPerTurn)
	if n == 0 {
		return vertices, indices
	}

	ccx, ccy := geo.Apply(rect.Center())
	for i := 0; i < n; i++ {
		a0 := start + sweepDeg*float64(i)/float64(n)
		a1 := start + sweepDeg*float64(i+1)/float64(n)
		clr := fill.ColorAt((a0 + a1) / 2)
		x0, y0 := geo.Apply(rect.ArcPoint(a0))
		x1, y1 := geo.Apply(rect.ArcPoint(a1))

		base := uint16(len(vertices))
		vertices = append(vertices,
			vertex(ccx, ccy, clr),
			vertex(x0, y0, clr),
			vertex(x1, y1, clr),
		)
		indices = append(indices, base, base+1, base+2)
	}
	return vertices, indices
}

func (s *screenSurface) StrokeLine(x0, y0, x1, y1 float64, width float32, clr color.RGBA) {
	x0, y0 = s.geo.Apply(x0, y0)
	x1, y1 = s.geo.Apply(x1, y1)
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
}

func (s *screenSurface) StrokeCircle(cx, cy, r float64, width float32, clr color.RGBA) {
	cx, cy = s.geo.Apply(cx, cy)
	vector.StrokeCircle(s.dst, float32(cx), float32(cy), float32(r), width, clr, true)
}

func vertex(x, y float64, clr color.RGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(clr.R) / 0xff,
		ColorG: float32(clr.G) / 0xff,
		ColorB: float32(clr.B) / 0xff,
		ColorA: float32(clr.A) / 0xff,
	}
}
