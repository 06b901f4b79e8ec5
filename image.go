package lowpoly

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	WithoutWireframe = iota
	WithWireframe
	WireframeOnly
)

// Image renders a result as a raster image.
type Image struct {
	Processor
	// Format is the encoding used by Draw: "png" (default), "jpg" or "jpeg".
	Format string
}

// Draw renders res and encodes it to w.
func (im *Image) Draw(res *Result, w io.Writer) error {
	img := im.Render(res)

	switch strings.ToLower(im.Format) {
	case "", "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
	return errors.Wrapf(ErrUnsupportedFormat, "%q", im.Format)
}

// Render paints the triangles of res at the size of the source image.
func (im *Image) Render(res *Result) image.Image {
	width, height := res.Width, res.Height
	ctx := gg.NewContext(width, height)
	ctx.DrawRectangle(0, 0, float64(width), float64(height))
	ctx.SetRGBA(1, 1, 1, 1)
	ctx.Fill()

	sx, sy := float64(width), float64(height)
	for i, t := range res.Mesh.Triangles() {
		a, b, c := res.Mesh.Vertices(t)

		ctx.Push()
		ctx.MoveTo(a.X*sx, a.Y*sy)
		ctx.LineTo(b.X*sx, b.Y*sy)
		ctx.LineTo(c.X*sx, c.Y*sy)
		ctx.ClosePath()

		fill := fillColor(res, i, t)
		lineColor := fill
		if im.IsSolid {
			lineColor = color.NRGBA{A: 255}
		}

		switch im.Wireframe {
		case WithoutWireframe:
			ctx.SetFillStyle(gg.NewSolidPattern(fill))
			// Stroking with the fill color hides the antialiasing seams.
			ctx.SetStrokeStyle(gg.NewSolidPattern(fill))
			ctx.SetLineWidth(1)
			ctx.FillPreserve()
			ctx.Stroke()
		case WithWireframe:
			ctx.SetFillStyle(gg.NewSolidPattern(fill))
			ctx.SetStrokeStyle(gg.NewSolidPattern(color.NRGBA{A: 20}))
			ctx.SetLineWidth(im.StrokeWidth)
			ctx.FillPreserve()
			ctx.Stroke()
		case WireframeOnly:
			ctx.SetStrokeStyle(gg.NewSolidPattern(lineColor))
			ctx.SetLineWidth(im.StrokeWidth)
			ctx.Stroke()
		}
		ctx.Pop()
	}

	out := ctx.Image()
	if im.Noise > 0 {
		return Noise(im.Noise, out, res.Seed)
	}
	return out
}

// fillColor returns the average color of triangle i, falling back to the
// pixel under its centroid when no pixel center fell inside it.
func fillColor(res *Result, i int, t Triangle) color.NRGBA {
	if res.Colors[i].Samples > 0 || res.Buffer == nil {
		return res.Colors[i].NRGBA()
	}
	a, b, c := res.Mesh.Vertices(t)
	cx := (a.X + b.X + c.X) / 3
	cy := (a.Y + b.Y + c.Y) / 3

	buf := res.Buffer
	x := Clamp(int(cx*float64(buf.Width)), 0, buf.Width-1)
	y := Clamp(int(cy*float64(buf.Height)), 0, buf.Height-1)
	r, g, bl, al := buf.At(x, y)
	return color.NRGBA{R: r, G: g, B: bl, A: al}
}
