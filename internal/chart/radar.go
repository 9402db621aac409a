package chart

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"descontamina/internal/model"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/image/vector"
)

const (
	Size     = 800
	MaxValue = 10.0

	margin       = 60
	ringSegments = 120
	lineWidth    = 3.0
	gridWidth    = 1.5
)

// Rings are the reference circles of the value axis
var Rings = []float64{2.5, 5, 7.5, 10}

var (
	background = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	gridColor  = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	spineColor = color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	lineColor  = color.NRGBA{R: 0xff, G: 0x99, B: 0x29, A: 0xff}
	fillColor  = color.NRGBA{R: 0xff, G: 0x99, B: 0x29, A: 0x40} // 25%
)

type point struct{ x, y float32 }

type radar struct {
	img    *image.RGBA
	z      *vector.Rasterizer
	cx, cy float64
	radius float64
	n      int
}

// RadarPNG draws the scores as a closed polygon over a polar grid. Axis i
// starts at three o'clock and advances counter-clockwise. Values are clamped
// to the 0-10 scale. Labels are not drawn.
func RadarPNG(scores []model.LabeledScore) ([]byte, error) {
	if len(scores) == 0 {
		return nil, goerr.New("no scores to draw")
	}

	r := &radar{
		img:    image.NewRGBA(image.Rect(0, 0, Size, Size)),
		z:      vector.NewRasterizer(Size, Size),
		cx:     Size / 2,
		cy:     Size / 2,
		radius: Size/2 - margin,
		n:      len(scores),
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, ring := range Rings[:len(Rings)-1] {
		r.strokeClosed(r.circle(ring), gridWidth, gridColor)
	}
	for i := 0; i < r.n; i++ {
		r.strokeOpen([]point{r.at(i, 0), r.at(i, MaxValue)}, gridWidth, gridColor)
	}
	r.strokeClosed(r.circle(MaxValue), gridWidth, spineColor)

	poly := make([]point, r.n)
	for i, s := range scores {
		poly[i] = r.at(i, clamp(s.Value))
	}
	r.fill(poly, fillColor)
	r.strokeClosed(poly, lineWidth, lineColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return nil, goerr.Wrap(err, "failed to encode radar chart")
	}
	return buf.Bytes(), nil
}

// RadarBase64 is RadarPNG encoded for an <img src="data:..."> tag. It returns
// "" when there is nothing to draw.
func RadarBase64(scores []model.LabeledScore) (string, error) {
	if len(scores) == 0 {
		return "", nil
	}
	data, err := RadarPNG(scores)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

func (r *radar) at(axis int, value float64) point {
	angle := 2 * math.Pi * float64(axis) / float64(r.n)
	dist := r.radius * value / MaxValue
	return point{
		x: float32(r.cx + dist*math.Cos(angle)),
		y: float32(r.cy - dist*math.Sin(angle)),
	}
}

func (r *radar) circle(value float64) []point {
	dist := r.radius * value / MaxValue
	pts := make([]point, ringSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ringSegments
		pts[i] = point{
			x: float32(r.cx + dist*math.Cos(a)),
			y: float32(r.cy - dist*math.Sin(a)),
		}
	}
	return pts
}

func (r *radar) paint(c color.Color) {
	r.z.DrawOp = draw.Over
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
	r.z.Reset(Size, Size)
}

func (r *radar) fill(pts []point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	r.z.MoveTo(pts[0].x, pts[0].y)
	for _, p := range pts[1:] {
		r.z.LineTo(p.x, p.y)
	}
	r.z.ClosePath()
	r.paint(c)
}

func (r *radar) strokeClosed(pts []point, width float32, c color.Color) {
	if len(pts) < 2 {
		return
	}
	r.strokeOpen(append(pts, pts[0]), width, c)
}

// strokeOpen rasterizes every segment as a quad. All quads share one winding
// so overlapping joins do not cancel out.
func (r *radar) strokeOpen(pts []point, width float32, c color.Color) {
	half := width / 2
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.x-a.x, b.y-a.y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		r.z.MoveTo(a.x+nx, a.y+ny)
		r.z.LineTo(b.x+nx, b.y+ny)
		r.z.LineTo(b.x-nx, b.y-ny)
		r.z.LineTo(a.x-nx, a.y-ny)
		r.z.ClosePath()
	}
	r.paint(c)
}
