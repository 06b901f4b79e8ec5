package lowpoly

import (
	"image"
	"math/rand"

	"github.com/disintegration/imaging"
)

// Noise returns a copy of img with monochrome grain of the given strength
// added to its color channels, like a film grain filter. The same seed
// always yields the same grain.
func Noise(amount int, img image.Image, seed int64) *image.NRGBA {
	dst := imaging.Clone(img)
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < len(dst.Pix); i += 4 {
		grain := (rng.Float64() - 0.5) * float64(amount)
		for c := i; c < i+3; c++ {
			dst.Pix[c] = uint8(Clamp(float64(dst.Pix[c])+grain, 0, 255))
		}
	}
	return dst
}
