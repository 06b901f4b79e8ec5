package lowpoly

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/r2"
)

// SVG renders a result as a vector image.
type SVG struct {
	Processor
	Title       string
	Description string
	// Scale multiplies the source image size. Zero keeps it.
	Scale float64
}

// Draw writes res to w as an SVG document with one polygon per triangle.
func (s *SVG) Draw(res *Result, w io.Writer) error {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Round(float64(res.Width) * scale))
	height := int(math.Round(float64(res.Height) * scale))

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	if s.Description != "" {
		canvas.Desc(s.Description)
	}

	xs, ys := make([]int, 3), make([]int, 3)
	for i, t := range res.Mesh.Triangles() {
		a, b, c := res.Mesh.Vertices(t)
		for k, p := range [3]r2.Point{a, b, c} {
			xs[k] = int(math.Round(p.X * float64(width)))
			ys[k] = int(math.Round(p.Y * float64(height)))
		}
		canvas.Polygon(xs, ys, s.style(fillColor(res, i, t)))
	}
	canvas.End()

	return ew.err
}

func (s *SVG) style(c color.NRGBA) string {
	var (
		fill    = "none"
		stroke  = "none"
		rgb     = fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
		opacity = float64(c.A) / 255
	)

	width := s.StrokeWidth
	switch s.Wireframe {
	case WithoutWireframe:
		fill, stroke, width = rgb, rgb, 1
	case WithWireframe:
		fill, stroke = rgb, "rgba(0,0,0,0.08)"
	case WireframeOnly:
		stroke = rgb
		if s.IsSolid {
			stroke = "rgb(0,0,0)"
		}
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f;stroke:%s;stroke-width:%.2f;stroke-linejoin:round",
		fill, opacity, stroke, width)
}

// errWriter remembers the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
