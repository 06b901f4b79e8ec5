package lowpoly

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Grid is a jittered lattice of normalized points. Points are laid out row
// by row: the outer loop runs over the rows (y) and the inner one over the
// columns (x), so the point in column i of row j has index j*XCount + i.
type Grid struct {
	Points []Point
	XCount int
	YCount int
}

// NewGrid scatters xCount × yCount points over the unit square. Every point is
// moved away from its lattice position by at most jitter/2 cells along each
// axis, but the outer rows and columns are pinned to the square's border so
// the convex hull of the set is always the unit square.
// A nil rng falls back to a generator seeded with 1.
func NewGrid(xCount, yCount int, jitter float64, rng *rand.Rand) (*Grid, error) {
	if xCount < 2 || yCount < 2 {
		return nil, errors.Wrapf(ErrInvalidParameter, "grid size %dx%d, need at least 2x2", xCount, yCount)
	}
	if !(jitter >= 0 && jitter <= 1) {
		return nil, errors.Wrapf(ErrInvalidParameter, "jitter %v outside [0, 1]", jitter)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	points := make([]Point, 0, xCount*yCount)
	for j := 0; j < yCount; j++ {
		for i := 0; i < xCount; i++ {
			x := scatter(i, xCount, jitter, rng)
			y := scatter(j, yCount, jitter, rng)
			points = append(points, NewPoint(x, y))
		}
	}

	return &Grid{
		Points: points,
		XCount: xCount,
		YCount: yCount,
	}, nil
}

// scatter returns the jittered, normalized coordinate of lattice line i out of n.
func scatter(i, n int, jitter float64, rng *rand.Rand) float64 {
	// Draw even for pinned lines so the sequence only depends on the grid size.
	r := rng.Float64()

	switch i {
	case 0:
		return 0
	case n - 1:
		return 1
	}
	return Clamp((float64(i)+(r-0.5)*jitter)/float64(n-1), 0, 1)
}

// Corners returns the indices of the top-left, top-right, bottom-left and
// bottom-right points.
func (g *Grid) Corners() (tl, tr, bl, br int) {
	tl = 0
	tr = g.XCount - 1
	bl = (g.YCount - 1) * g.XCount
	br = g.XCount*g.YCount - 1
	return
}

// Index returns the index of the point in column i of row j.
func (g *Grid) Index(i, j int) int {
	return j*g.XCount + i
}
