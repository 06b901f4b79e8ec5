package lowpoly

import (
	"image"
	"io"

	// Register the decoders imaging does not pull in itself.
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// PixelBuffer is a row-major, non-premultiplied RGBA pixel grid.
type PixelBuffer struct {
	Width  int
	Height int
	// Pix holds 4 bytes per pixel: R, G, B, A.
	Pix []uint8
}

// NewPixelBuffer copies img into a pixel buffer with its origin at (0, 0).
func NewPixelBuffer(img image.Image) (*PixelBuffer, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	nrgba := imaging.Clone(img)

	return &PixelBuffer{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Pix:    nrgba.Pix,
	}, nil
}

// Validate checks that the buffer holds exactly Width*Height pixels.
func (b *PixelBuffer) Validate() error {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return errors.Wrap(ErrInvalidParameter, "pixel buffer has no pixels")
	}
	if len(b.Pix) != 4*b.Width*b.Height {
		return errors.Wrapf(ErrInvalidParameter, "pixel buffer of %dx%d holds %d bytes, want %d",
			b.Width, b.Height, len(b.Pix), 4*b.Width*b.Height)
	}
	return nil
}

// At returns the color channels of the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Image wraps the buffer in an *image.NRGBA sharing the same pixels.
func (b *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// DecodeImage decodes any registered image format, applying the EXIF
// orientation tag when present.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// samplingImage prepares the image the colors are averaged from: converted
// to grayscale when asked, and shrunk to fit maxSide when positive.
func samplingImage(img image.Image, maxSide int, gray bool) image.Image {
	b := img.Bounds()
	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Box)
	}
	if gray {
		img = imaging.Grayscale(img)
	}
	return img
}
