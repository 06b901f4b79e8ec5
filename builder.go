package lowpoly

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// BuildStats collects the degenerate cases met while building a mesh.
type BuildStats struct {
	// Inserted is the number of points inserted after the four seed corners.
	Inserted int
	// Degenerate counts subdivision children dropped for having zero area.
	Degenerate int
	// EdgeSplits counts neighbors split because the new point lay on their shared edge.
	EdgeSplits int
	// Orphans counts points no triangle contained. They stay unused.
	Orphans int
	// Coincident counts points landing on an existing vertex. They stay unused.
	Coincident int
}

// BuildOption customizes Build.
type BuildOption func(*builder)

// WithLegalizer repairs the triangles created by every insertion right away.
// The repair statistics are accumulated into stats when it is not nil.
func WithLegalizer(l *Legalizer, stats *LegalizeStats) BuildOption {
	return func(b *builder) {
		b.legalizer = l
		b.legalizeStats = stats
	}
}

type builder struct {
	mesh          *Mesh
	stats         BuildStats
	legalizer     *Legalizer
	legalizeStats *LegalizeStats
}

// Build triangulates the grid points. The unit square is seeded with two
// triangles split along the top-left to bottom-right diagonal, then every
// remaining point is inserted in index order into the first triangle that
// contains it. The grid itself is left untouched.
func Build(g *Grid, opts ...BuildOption) (*Mesh, BuildStats, error) {
	if g == nil || g.XCount < 2 || g.YCount < 2 || len(g.Points) != g.XCount*g.YCount {
		return nil, BuildStats{}, errors.Wrap(ErrInvalidParameter, "grid does not match its dimensions")
	}

	points := make([]Point, len(g.Points))
	copy(points, g.Points)

	b := &builder{mesh: NewMesh(points)}
	for _, opt := range opts {
		opt(b)
	}
	if b.legalizer != nil && b.legalizeStats == nil {
		b.legalizeStats = new(LegalizeStats)
	}

	tl, tr, bl, br := g.Corners()
	for _, t := range []Triangle{{tl, tr, br}, {tl, br, bl}} {
		t, ok := ReorderCCW(points, t)
		if !ok || b.mesh.Degenerate(t) {
			return nil, BuildStats{}, errors.Wrap(ErrInvalidParameter, "grid corners do not span the unit square")
		}
		b.mesh.push(t)
	}
	for _, i := range []int{tl, tr, bl, br} {
		points[i].Used = true
	}

	for i := range points {
		if points[i].Used {
			continue
		}
		b.insert(i)
	}

	return b.mesh, b.stats, nil
}

// insert subdivides the frontier triangle of point i.
func (b *builder) insert(i int) {
	m := b.mesh
	p := m.Points[i].Point

	h, t, ok := b.locate(p)
	if !ok {
		b.stats.Orphans++
		return
	}
	if t.Has(i) {
		return
	}

	children, dropped := b.subdivide(i, t, nil)
	if len(dropped) > 1 {
		// Two flat children means i sits on a vertex of t.
		b.stats.Coincident++
		return
	}
	b.stats.Degenerate += len(dropped)

	created := b.commit(h, children)
	for _, e := range dropped {
		nh, nt, ok := b.across(h.slot, e)
		if !ok {
			continue
		}
		children, flat := b.subdivide(i, nt, &e)
		b.stats.Degenerate += len(flat)
		created = append(created, b.commit(nh, children)...)
		b.stats.EdgeSplits++
	}

	m.Points[i].Used = true
	b.stats.Inserted++

	if b.legalizer != nil {
		for _, h := range created {
			b.legalizer.Repair(m, h, b.legalizeStats)
		}
	}
}

// locate returns the first triangle, in position order, containing p.
func (b *builder) locate(p r2.Point) (Handle, Triangle, bool) {
	m := b.mesh
	for k, s := range m.slots {
		if m.Contains(s.tri, p) {
			return m.At(k), s.tri, true
		}
	}
	return Handle{}, Triangle{}, false
}

// across returns the triangle other than the one at slot skip sharing edge e.
func (b *builder) across(skip int, e [2]int) (Handle, Triangle, bool) {
	m := b.mesh
	for k, s := range m.slots {
		if k != skip && s.tri.Has(e[0]) && s.tri.Has(e[1]) {
			return m.At(k), s.tri, true
		}
	}
	return Handle{}, Triangle{}, false
}

// subdivide connects point i to every edge of t, except the skipped one, and
// returns the CCW children along with the edges whose child had zero area.
func (b *builder) subdivide(i int, t Triangle, skip *[2]int) ([]Triangle, [][2]int) {
	var (
		children []Triangle
		dropped  [][2]int
	)
	for _, e := range t.Edges() {
		if skip != nil && sameEdge(e, *skip) {
			continue
		}
		child, ok := ReorderCCW(b.mesh.Points, Triangle{i, e[0], e[1]})
		if !ok || b.mesh.Degenerate(child) {
			dropped = append(dropped, e)
			continue
		}
		children = append(children, child)
	}
	return children, dropped
}

// commit stores children in place of the triangle referenced by h.
func (b *builder) commit(h Handle, children []Triangle) []Handle {
	if len(children) == 0 {
		return nil
	}
	first, err := b.mesh.overwrite(h, children[0])
	if err != nil {
		return nil
	}
	handles := []Handle{first}
	for _, c := range children[1:] {
		handles = append(handles, b.mesh.push(c))
	}
	return handles
}

func sameEdge(a, b [2]int) bool {
	return a == b || (a[0] == b[1] && a[1] == b[0])
}
