package lowpoly

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * x / w),
				G: uint8(255 * y / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestProcessorValidate(t *testing.T) {
	valid := Processor{XCount: 4, YCount: 4, Jitter: 0.5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(p *Processor)
	}{
		{"grid too small", func(p *Processor) { p.XCount = 1 }},
		{"negative jitter", func(p *Processor) { p.Jitter = -1 }},
		{"jitter above one", func(p *Processor) { p.Jitter = 1.01 }},
		{"NaN jitter", func(p *Processor) { p.Jitter = math.NaN() }},
		{"negative depth", func(p *Processor) { p.MaxDepth = -1 }},
		{"negative sample size", func(p *Processor) { p.SampleSize = -5 }},
		{"unknown wireframe mode", func(p *Processor) { p.Wireframe = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			assert.Equal(t, ErrInvalidParameter, errors.Cause(p.Validate()))
		})
	}
}

func TestTriangulate(t *testing.T) {
	p := &Processor{XCount: 8, YCount: 6, Jitter: 0.8, Seed: 7}
	res, err := p.Triangulate(gradientImage(64, 48))
	require.NoError(t, err)

	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 48, res.Height)
	assert.Equal(t, int64(7), res.Seed)
	assert.Equal(t, 2*48-2-24, res.Mesh.Len())
	assert.Len(t, res.Colors, res.Mesh.Len())
	requireValidMesh(t, res.Mesh)

	d := res.Diagnostics
	assert.True(t, d.Legalize.Converged)
	assert.Zero(t, violations(res.Mesh))
	assert.Equal(t, 64*48, d.Colorize.Pixels)
	assert.Zero(t, d.Colorize.Uncovered)
}

func TestTriangulateIsDeterministic(t *testing.T) {
	p := &Processor{XCount: 10, YCount: 10, Jitter: 0.8, Seed: 42}
	img := gradientImage(50, 50)

	a, err := p.Triangulate(img)
	require.NoError(t, err)
	b, err := p.Triangulate(img)
	require.NoError(t, err)

	if diff := cmp.Diff(a.Export(), b.Export()); diff != "" {
		t.Errorf("same seed produced different results (-first +second):\n%s", diff)
	}
}

func TestTriangulateResolvesZeroSeed(t *testing.T) {
	p := &Processor{XCount: 4, YCount: 4, Jitter: 0.5}
	res, err := p.Triangulate(gradientImage(16, 16))
	require.NoError(t, err)
	require.NotZero(t, res.Seed)

	// The resolved seed reproduces the same mesh.
	p.Seed = res.Seed
	again, err := p.Triangulate(gradientImage(16, 16))
	require.NoError(t, err)
	assert.Equal(t, res.Export(), again.Export())
}

func TestTriangulateSampleSize(t *testing.T) {
	p := &Processor{XCount: 4, YCount: 4, Jitter: 0.5, Seed: 1, SampleSize: 20, Grayscale: true}
	res, err := p.Triangulate(gradientImage(80, 40))
	require.NoError(t, err)

	assert.Equal(t, 80, res.Width)
	assert.Equal(t, 40, res.Height)
	assert.Equal(t, 20, res.Buffer.Width)
	assert.Equal(t, 10, res.Buffer.Height)
	for _, c := range res.Colors {
		if c.Samples == 0 {
			continue
		}
		assert.InDelta(t, c.R, c.G, 1e-9)
		assert.InDelta(t, c.G, c.B, 1e-9)
	}
}

func TestTriangulateErrors(t *testing.T) {
	p := &Processor{XCount: 4, YCount: 4, Jitter: 0.5}

	_, err := p.Triangulate(nil)
	assert.Equal(t, ErrEmptyImage, err)
	_, err = p.Triangulate(image.NewNRGBA(image.Rect(0, 0, 0, 10)))
	assert.Equal(t, ErrEmptyImage, err)

	p.YCount = 0
	_, err = p.Triangulate(gradientImage(10, 10))
	assert.Equal(t, ErrInvalidParameter, errors.Cause(err))
}

func TestTriangulateLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := &Processor{XCount: 5, YCount: 5, Jitter: 0.5, Seed: 3, Logger: zap.New(core)}

	_, err := p.Triangulate(gradientImage(20, 20))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("mesh built").Len())
	assert.Equal(t, 1, logs.FilterMessage("mesh legalized").Len())
	finished := logs.FilterMessage("triangulation finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(3), finished[0].ContextMap()["seed"])
}

func TestProcess(t *testing.T) {
	p := &Processor{XCount: 6, YCount: 5, Jitter: 0.8, Seed: 11}
	out := new(bytes.Buffer)

	res, err := p.Process(encodePNG(t, gradientImage(30, 20)), out, &Image{Processor: *p})
	require.NoError(t, err)
	require.NotNil(t, res)

	img, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), img.Bounds())
}

func TestProcessBadInput(t *testing.T) {
	p := &Processor{XCount: 4, YCount: 4}
	_, err := p.Process(bytes.NewBufferString("not an image"), new(bytes.Buffer), &Image{})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	p := &Processor{XCount: 3, YCount: 3, Seed: 1}
	res, err := p.Triangulate(gradientImage(9, 9))
	require.NoError(t, err)

	e := res.Export()
	assert.Equal(t, 9, e.Width)
	assert.Len(t, e.Points, 9)
	assert.Len(t, e.Triangles, res.Mesh.Len())
	assert.Len(t, e.Colors, res.Mesh.Len())
	assert.Equal(t, [2]float64{0.5, 0.5}, e.Points[4])

	data, err := json.Marshal(e)
	require.NoError(t, err)
	var decoded Export
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, e.Triangles, decoded.Triangles)
	assert.Contains(t, string(data), `"triangles":[[`)
}
