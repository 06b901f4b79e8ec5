package lowpoly

import (
	"image/color"

	"github.com/golang/geo/r2"
)

// AverageColor is the running mean of the pixels a triangle covers.
// Channels range over [0, 255], alpha included.
type AverageColor struct {
	R, G, B, A float64
	Samples    int
}

// add folds one pixel into the running mean.
func (c *AverageColor) add(r, g, b, a uint8) {
	n := float64(c.Samples)
	c.R = (c.R*n + float64(r)) / (n + 1)
	c.G = (c.G*n + float64(g)) / (n + 1)
	c.B = (c.B*n + float64(b)) / (n + 1)
	c.A = (c.A*n + float64(a)) / (n + 1)
	c.Samples++
}

// NRGBA rounds the average to an 8 bit color.
func (c AverageColor) NRGBA() color.NRGBA {
	round := func(v float64) uint8 {
		return uint8(Clamp(v+0.5, 0, 255))
	}
	return color.NRGBA{R: round(c.R), G: round(c.G), B: round(c.B), A: round(c.A)}
}

// ColorizeStats reports the pixels that could not be attributed.
type ColorizeStats struct {
	Pixels    int
	Uncovered int
}

// Colorize averages the pixels of buf over the triangles of m. Pixel (x, y)
// is mapped to (x/width, y/height) and attributed to the first triangle, in
// position order, containing it. The result is indexed by triangle position;
// triangles covering no pixel keep a zero color. An inconsistent buffer is
// rejected before any pixel is read.
func Colorize(m *Mesh, buf *PixelBuffer) ([]AverageColor, ColorizeStats, error) {
	var stats ColorizeStats
	if err := buf.Validate(); err != nil {
		return nil, stats, err
	}
	colors := make([]AverageColor, m.Len())

	tris := m.Triangles()
	boxes := make([]r2.Rect, len(tris))
	for i, t := range tris {
		a, b, c := m.Vertices(t)
		boxes[i] = r2.RectFromPoints(a, b, c)
	}

	w, h := float64(buf.Width), float64(buf.Height)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			stats.Pixels++
			p := r2.Point{X: float64(x) / w, Y: float64(y) / h}

			found := -1
			for i, t := range tris {
				if !boxes[i].ContainsPoint(p) {
					continue
				}
				if m.Contains(t, p) {
					found = i
					break
				}
			}
			if found < 0 {
				stats.Uncovered++
				continue
			}
			colors[found].add(buf.At(x, y))
		}
	}
	return colors, stats, nil
}
