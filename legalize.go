package lowpoly

import "github.com/pkg/errors"

const (
	// MaxDepth bounds the number of nested repairs triggered by a single
	// top-level repair. It is the only guard against flip sequences that cycle.
	MaxDepth = 1500
	// DefaultMaxPasses bounds the number of full sweeps run by Legalize.
	DefaultMaxPasses = 32
)

// LegalizeStats reports what the legalizer did and what it had to give up on.
type LegalizeStats struct {
	// Flips is the number of edge flips performed.
	Flips int
	// Unresolved counts circumcircle violations that had no flippable
	// neighbor during the last sweep.
	Unresolved int
	// DepthLimitHits counts repairs skipped because MaxDepth was reached.
	DepthLimitHits int
	// Stale counts repairs skipped because a nested flip had already
	// overwritten the triangle.
	Stale int
	// Passes is the number of full sweeps run.
	Passes int
	// Converged is set when the last sweep found nothing to flip.
	Converged bool
}

// Legalizer flips edge-adjacent triangle pairs until no used point lies
// inside the circumcircle of a neighboring triangle, or it gives up.
type Legalizer struct {
	// MaxDepth overrides the package MaxDepth when positive.
	MaxDepth int
	// MaxPasses overrides DefaultMaxPasses when positive.
	MaxPasses int
}

func (l *Legalizer) maxDepth() int {
	if l != nil && l.MaxDepth > 0 {
		return l.MaxDepth
	}
	return MaxDepth
}

func (l *Legalizer) maxPasses() int {
	if l != nil && l.MaxPasses > 0 {
		return l.MaxPasses
	}
	return DefaultMaxPasses
}

// Legalize sweeps over every triangle of m, repairing each one, until a
// sweep performs no flip or the pass limit is reached.
func (l *Legalizer) Legalize(m *Mesh) LegalizeStats {
	var stats LegalizeStats

	for stats.Passes < l.maxPasses() {
		stats.Passes++
		stats.Unresolved = 0
		flips := stats.Flips

		for k := 0; k < m.Len(); k++ {
			l.Repair(m, m.At(k), &stats)
		}
		if stats.Flips == flips {
			stats.Converged = true
			break
		}
	}
	return stats
}

// Repair flips the triangle referenced by h against the first neighbor whose
// opposite vertex lies inside its circumcircle, then repairs both resulting
// triangles recursively. It reports whether a flip happened.
func (l *Legalizer) Repair(m *Mesh, h Handle, stats *LegalizeStats) bool {
	if stats == nil {
		stats = new(LegalizeStats)
	}
	var calls int
	return l.repair(m, h, &calls, stats)
}

func (l *Legalizer) repair(m *Mesh, h Handle, calls *int, stats *LegalizeStats) bool {
	t, err := m.Triangle(h)
	if err != nil {
		stats.Stale++
		return false
	}

	for i := range m.Points {
		if !m.Points[i].Used || t.Has(i) || !m.InCircumcircle(i, t) {
			continue
		}
		nb, ok := neighbor(m, t, i)
		if !ok {
			stats.Unresolved++
			continue
		}
		ha, hb, err := Flip(m, h, nb)
		if err != nil {
			stats.Unresolved++
			continue
		}
		stats.Flips++

		l.descend(m, ha, calls, stats)
		l.descend(m, hb, calls, stats)
		return true
	}
	return false
}

func (l *Legalizer) descend(m *Mesh, h Handle, calls *int, stats *LegalizeStats) {
	if *calls >= l.maxDepth() {
		stats.DepthLimitHits++
		return
	}
	*calls++
	l.repair(m, h, calls, stats)
}

// neighbor returns the triangle sharing an edge of t whose opposite vertex is
// p, provided the quadrilateral formed by both is strictly convex.
func neighbor(m *Mesh, t Triangle, p int) (Handle, bool) {
	for k, e := range t.Edges() {
		h, ok := m.Lookup(Triangle{e[0], e[1], p}.Signature())
		if !ok {
			continue
		}
		w := t[(k+2)%3]
		if convex(m, e[0], e[1], w, p) {
			return h, true
		}
	}
	return Handle{}, false
}

// convex reports whether the diagonal u-v of the quadrilateral u, w, v, p can
// be swapped for w-p.
func convex(m *Mesh, u, v, w, p int) bool {
	pu, pv := m.Points[u].Point, m.Points[v].Point
	pw, pp := m.Points[w].Point, m.Points[p].Point

	s1, s2 := Orient(pu, pv, pw), Orient(pu, pv, pp)
	if s1 == Collinear || s2 == Collinear || s1 == s2 {
		return false
	}
	s3, s4 := Orient(pw, pp, pu), Orient(pw, pp, pv)
	return s3 != Collinear && s4 != Collinear && s3 != s4
}

// Flip swaps the shared edge of the triangles referenced by a and b. The two
// vertices unique to each triangle become the new shared edge, and each of
// the former shared vertices closes one of the new triangles. Both slots are
// overwritten in place, so a and b become stale; the returned handles refer
// to the new triangles. Flip does not check that the quadrilateral is convex.
func Flip(m *Mesh, a, b Handle) (Handle, Handle, error) {
	ta, err := m.Triangle(a)
	if err != nil {
		return Handle{}, Handle{}, err
	}
	tb, err := m.Triangle(b)
	if err != nil {
		return Handle{}, Handle{}, err
	}
	if a.slot == b.slot {
		return Handle{}, Handle{}, errors.Wrapf(ErrNotAdjacent, "flip %v with itself", a)
	}

	var (
		shared []int
		ua, ub = -1, -1
	)
	for _, v := range ta {
		if tb.Has(v) {
			shared = append(shared, v)
		} else {
			ua = v
		}
	}
	for _, v := range tb {
		if !ta.Has(v) {
			ub = v
		}
	}
	if len(shared) != 2 || ua < 0 || ub < 0 {
		return Handle{}, Handle{}, errors.Wrapf(ErrNotAdjacent, "%v and %v share %d vertices", a, b, len(shared))
	}

	na, okA := ReorderCCW(m.Points, Triangle{ua, ub, shared[0]})
	nb, okB := ReorderCCW(m.Points, Triangle{ua, ub, shared[1]})
	if !okA || !okB || m.Degenerate(na) || m.Degenerate(nb) {
		return Handle{}, Handle{}, errors.Wrapf(ErrDegenerateFlip, "%v and %v", a, b)
	}

	if a, err = m.overwrite(a, na); err != nil {
		return Handle{}, Handle{}, err
	}
	if b, err = m.overwrite(b, nb); err != nil {
		return Handle{}, Handle{}, err
	}
	return a, b, nil
}
