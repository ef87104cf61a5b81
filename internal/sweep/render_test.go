package sweep

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gray  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func testStyle() Style {
	return Style{
		Background:    white,
		GradientStart: gray,
		GradientEnd:   black,
		Stroke:        black,
		StrokeWidth:   1,
	}
}

// recorder is a Surface that logs calls as strings.
type recorder struct {
	calls []string
}

func (r *recorder) Rotate(deg, cx, cy float64) {
	r.calls = append(r.calls, fmt.Sprintf("rotate %g %g %g", deg, cx, cy))
}

func (r *recorder) Restore() { r.calls = append(r.calls, "restore") }

func (r *recorder) FillSector(rect BoundingSquare, start, sweep float64, fill GradientSpec) {
	r.calls = append(r.calls, fmt.Sprintf("sector %g %g", start, sweep))
}

func (r *recorder) StrokeLine(x0, y0, x1, y1 float64, width float32, clr color.RGBA) {
	r.calls = append(r.calls, fmt.Sprintf("line %g %g %g %g", x0, y0, x1, y1))
}

func (r *recorder) StrokeCircle(cx, cy, radius float64, width float32, clr color.RGBA) {
	r.calls = append(r.calls, fmt.Sprintf("circle %g %g %g", cx, cy, radius))
}

func TestComputeLayout_Size200(t *testing.T) {
	l := ComputeLayout(200, testStyle())

	assert.Equal(t, BoundingSquare{X0: 0, Y0: 0, X1: 200, Y1: 200}, l.Square)
	assert.Equal(t, 100.0, l.Gradient.CX)
	assert.Equal(t, 100.0, l.Gradient.CY)
	assert.Equal(t, gray, l.Gradient.Start)
	assert.Equal(t, black, l.Gradient.End)
}

func TestComputeLayout_Idempotent(t *testing.T) {
	for _, size := range []int{0, 1, 199, 200, 1024} {
		assert.Equal(t, ComputeLayout(size, testStyle()), ComputeLayout(size, testStyle()))
	}
}

func TestComputeLayout_OddSizeUsesIntegerCenter(t *testing.T) {
	l := ComputeLayout(201, testStyle())
	assert.Equal(t, 100.0, l.Gradient.CX)
	assert.Equal(t, 201.0, l.Square.X1)
}

func TestLayoutCache_RecomputesOnlyOnChange(t *testing.T) {
	var c LayoutCache
	style := testStyle()

	_, changed := c.Get(200, style)
	assert.True(t, changed)

	_, changed = c.Get(200, style)
	assert.False(t, changed)

	l, changed := c.Get(300, style)
	assert.True(t, changed)
	assert.Equal(t, 150.0, l.Gradient.CX)

	style.GradientEnd = white
	l, changed = c.Get(300, style)
	assert.True(t, changed)
	assert.Equal(t, white, l.Gradient.End)
}

func TestBoundingSquare_ArcPoint(t *testing.T) {
	sq := BoundingSquare{X0: 0, Y0: 0, X1: 200, Y1: 200}

	for _, tc := range []struct {
		deg  float64
		x, y float64
	}{
		{0, 200, 100},
		{90, 100, 200}, // clockwise on screen: 90 points down
		{180, 0, 100},
		{270, 100, 0},
		{-90, 100, 0},
	} {
		x, y := sq.ArcPoint(tc.deg)
		assert.InDelta(t, tc.x, x, 1e-9, "x at %g", tc.deg)
		assert.InDelta(t, tc.y, y, 1e-9, "y at %g", tc.deg)
	}
}

func TestArcSegments(t *testing.T) {
	assert.Equal(t, 0, ArcSegments(0, 128))
	assert.Equal(t, 0, ArcSegments(-10, 128))
	assert.Equal(t, 0, ArcSegments(90, 0))
	assert.Equal(t, 32, ArcSegments(90, 128))
	assert.Equal(t, 1, ArcSegments(0.5, 128), "a sliver still gets one chord")
	assert.Equal(t, 128, ArcSegments(360, 128))
}

func TestGradientSpec_ColorAt(t *testing.T) {
	g := GradientSpec{CX: 100, CY: 100, Start: gray, End: black}

	assert.Equal(t, gray, g.ColorAt(0))
	assert.Equal(t, gray, g.ColorAt(360), "360 wraps back to the start")
	assert.Equal(t, gray, g.ColorAt(-360))

	mid := g.ColorAt(180)
	assert.Less(t, mid.R, gray.R)
	assert.Greater(t, mid.R, black.R)
	assert.Equal(t, uint8(0xff), mid.A)

	assert.Less(t, g.ColorAt(270).R, g.ColorAt(90).R, "darker further around the sweep")
}

func TestGradientSpec_ColorAtPoint(t *testing.T) {
	g := GradientSpec{CX: 100, CY: 100, Start: gray, End: black}

	assert.Equal(t, gray, g.ColorAtPoint(100, 100))
	assert.Equal(t, gray, g.ColorAtPoint(150, 100), "positive x axis is 0 degrees")
	assert.Equal(t, g.ColorAt(90), g.ColorAtPoint(100, 150), "y down is 90 degrees")
}

func TestRender_Angle0(t *testing.T) {
	style := testStyle()
	script := Render(0, ComputeLayout(200, style), style)

	rec := &recorder{}
	script.Replay(rec)

	assert.Equal(t, []string{
		"rotate 0 100 100",
		"sector 0 0",
		"restore",
		"line 0 100 200 100",
		"line 100 0 100 200",
		"circle 100 100 50",
		"circle 100 100 100",
	}, rec.calls)
}

func TestRender_Angle90(t *testing.T) {
	style := testStyle()
	layout := ComputeLayout(200, style)
	script := Render(90, layout, style)

	require.Len(t, script, 7)
	assert.Equal(t, Rotate{Degrees: 90, CX: 100, CY: 100}, script[0])
	assert.Equal(t, Sector{Rect: layout.Square, Start: 0, Sweep: 90, Fill: layout.Gradient}, script[1])
	assert.Equal(t, Restore{}, script[2])
}

func TestRender_StrokesUseStyle(t *testing.T) {
	style := testStyle()
	style.Stroke = color.RGBA{R: 0x20, G: 0xc0, B: 0x20, A: 0xff}
	style.StrokeWidth = 2.5

	for _, op := range Render(45, ComputeLayout(100, style), style) {
		switch o := op.(type) {
		case Line:
			assert.Equal(t, style.Stroke, o.Color)
			assert.Equal(t, style.StrokeWidth, o.Width)
		case Circle:
			assert.Equal(t, style.Stroke, o.Color)
			assert.Equal(t, style.StrokeWidth, o.Width)
		}
	}
}

func TestRender_SectorPrecedesReticle(t *testing.T) {
	style := testStyle()
	layout := ComputeLayout(200, style)

	for angle := 0; angle < 360; angle++ {
		script := Render(angle, layout, style)

		sector, restore, firstReticle := -1, -1, len(script)
		for i, op := range script {
			switch op.(type) {
			case Sector:
				sector = i
			case Restore:
				restore = i
			case Line, Circle:
				if i < firstReticle {
					firstReticle = i
				}
			}
		}
		require.GreaterOrEqual(t, sector, 0)
		assert.Less(t, sector, firstReticle, "angle %d", angle)
		assert.Less(t, restore, firstReticle, "reticle must be drawn unrotated at angle %d", angle)
	}
}
