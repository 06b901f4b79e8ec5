package lowpoly

import (
	"image"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultXCount is the default number of grid columns.
	DefaultXCount = 32
	// DefaultYCount is the default number of grid rows.
	DefaultYCount = 24
	// DefaultJitter is the default jitter, as a fraction of a grid cell.
	DefaultJitter = 0.8
)

// Processor holds the triangulation and rendering options.
type Processor struct {
	XCount int
	YCount int
	Jitter float64
	// Seed seeds the jitter. Zero picks a time based seed.
	Seed int64
	// MaxDepth and MaxPasses bound the legalization. Zero keeps the defaults.
	MaxDepth  int
	MaxPasses int
	// SampleSize is the longest side of the image colors are averaged from.
	// Larger images are shrunk first. Zero averages over the full image.
	SampleSize  int
	Grayscale   bool
	Wireframe   int
	StrokeWidth float64
	IsSolid     bool
	Noise       int
	// Logger receives the pipeline diagnostics. Nil discards them.
	Logger *zap.Logger
}

// Diagnostics gathers the degenerate cases every stage ran into.
type Diagnostics struct {
	Build    BuildStats
	Repair   LegalizeStats
	Legalize LegalizeStats
	Colorize ColorizeStats
	Elapsed  time.Duration
}

// Result is the outcome of a triangulation run.
type Result struct {
	Mesh   *Mesh
	Colors []AverageColor
	// Width and Height are the dimensions of the source image.
	Width  int
	Height int
	// Seed is the seed the grid was jittered with, resolved when
	// Processor.Seed is zero. Renderers reuse it for the grain.
	Seed int64
	// Buffer is the pixel buffer the colors were averaged from.
	Buffer      *PixelBuffer
	Diagnostics Diagnostics
}

// Drawer renders a triangulation result.
type Drawer interface {
	Draw(res *Result, w io.Writer) error
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Validate checks the options the triangulation depends on.
func (p *Processor) Validate() error {
	if p.XCount < 2 || p.YCount < 2 {
		return errors.Wrapf(ErrInvalidParameter, "grid size %dx%d", p.XCount, p.YCount)
	}
	if !(p.Jitter >= 0 && p.Jitter <= 1) {
		return errors.Wrapf(ErrInvalidParameter, "jitter %v", p.Jitter)
	}
	if p.MaxDepth < 0 || p.MaxPasses < 0 || p.SampleSize < 0 {
		return errors.Wrap(ErrInvalidParameter, "negative limit")
	}
	if p.Wireframe < WithoutWireframe || p.Wireframe > WireframeOnly {
		return errors.Wrapf(ErrInvalidParameter, "wireframe mode %d", p.Wireframe)
	}
	return nil
}

// Triangulate scatters the grid, builds and legalizes the mesh, and averages
// the colors of src over its triangles.
func (p *Processor) Triangulate(src image.Image) (*Result, error) {
	start := time.Now()
	log := p.logger()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	grid, err := NewGrid(p.XCount, p.YCount, p.Jitter, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Width:  src.Bounds().Dx(),
		Height: src.Bounds().Dy(),
		Seed:   seed,
	}
	diag := &res.Diagnostics

	legalizer := &Legalizer{MaxDepth: p.MaxDepth, MaxPasses: p.MaxPasses}
	res.Mesh, diag.Build, err = Build(grid, WithLegalizer(legalizer, &diag.Repair))
	if err != nil {
		return nil, errors.Wrap(err, "build mesh")
	}
	log.Debug("mesh built",
		zap.Int("points", len(grid.Points)),
		zap.Int("triangles", res.Mesh.Len()),
		zap.Int("degenerate", diag.Build.Degenerate),
		zap.Int("edgeSplits", diag.Build.EdgeSplits),
		zap.Int("insertFlips", diag.Repair.Flips),
	)

	diag.Legalize = legalizer.Legalize(res.Mesh)
	log.Debug("mesh legalized",
		zap.Int("flips", diag.Legalize.Flips),
		zap.Int("passes", diag.Legalize.Passes),
		zap.Int("unresolved", diag.Legalize.Unresolved),
		zap.Int("depthLimitHits", diag.Legalize.DepthLimitHits),
		zap.Bool("converged", diag.Legalize.Converged),
	)

	res.Buffer, err = NewPixelBuffer(samplingImage(src, p.SampleSize, p.Grayscale))
	if err != nil {
		return nil, err
	}
	res.Colors, diag.Colorize, err = Colorize(res.Mesh, res.Buffer)
	if err != nil {
		return nil, err
	}
	diag.Elapsed = time.Since(start)

	log.Info("triangulation finished",
		zap.Int64("seed", seed),
		zap.Int("triangles", res.Mesh.Len()),
		zap.Int("uncoveredPixels", diag.Colorize.Uncovered),
		zap.Duration("elapsed", diag.Elapsed),
	)
	return res, nil
}

// Process decodes the image read from r, triangulates it and renders the
// result to w with d.
func (p *Processor) Process(r io.Reader, w io.Writer, d Drawer) (*Result, error) {
	src, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	res, err := p.Triangulate(src)
	if err != nil {
		return nil, err
	}
	if err := d.Draw(res, w); err != nil {
		return res, errors.Wrap(err, "draw")
	}
	return res, nil
}

// Export is the plain data form of a result, suitable for JSON encoding.
type Export struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Points    [][2]float64 `json:"points"`
	Triangles [][3]int     `json:"triangles"`
	Colors    [][4]float64 `json:"colors"`
}

// Export flattens the mesh and its colors.
func (r *Result) Export() Export {
	e := Export{
		Width:     r.Width,
		Height:    r.Height,
		Points:    make([][2]float64, len(r.Mesh.Points)),
		Triangles: make([][3]int, 0, r.Mesh.Len()),
		Colors:    make([][4]float64, 0, len(r.Colors)),
	}
	for i, p := range r.Mesh.Points {
		e.Points[i] = [2]float64{p.X, p.Y}
	}
	for _, t := range r.Mesh.Triangles() {
		e.Triangles = append(e.Triangles, [3]int(t))
	}
	for _, c := range r.Colors {
		e.Colors = append(e.Colors, [4]float64{c.R, c.G, c.B, c.A})
	}
	return e
}
