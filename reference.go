package lowpoly

import (
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"github.com/pkg/errors"
)

// hullEps is the coplanarity tolerance handed to the convex hull.
const hullEps = 1e-12

// ReferenceDelaunay computes the Delaunay triangulation of the used points of
// m by lifting them onto the paraboloid z = x² + y² and keeping the downward
// facing faces of their convex hull. Four or more cocircular points lift to a
// coplanar face, which the hull splits arbitrarily.
func ReferenceDelaunay(m *Mesh) ([]Triangle, error) {
	var (
		lifted []r3.Vector
		ids    []int
	)
	for i, p := range m.Points {
		if !p.Used {
			continue
		}
		lifted = append(lifted, r3.Vector{X: p.X, Y: p.Y, Z: p.X*p.X + p.Y*p.Y})
		ids = append(ids, i)
	}
	if len(lifted) < 4 {
		return nil, errors.Wrapf(ErrInvalidParameter, "%d points, need at least 4", len(lifted))
	}

	qh := new(quickhull.QuickHull)
	hull := qh.ConvexHull(lifted, true, true, hullEps)
	if len(hull.Indices)%3 != 0 {
		return nil, errors.New("convex hull returned a partial triangle")
	}

	var centroid r3.Vector
	for _, v := range lifted {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(lifted)))

	var tris []Triangle
	for k := 0; k < len(hull.Indices); k += 3 {
		a, b, c := hull.Indices[k], hull.Indices[k+1], hull.Indices[k+2]
		normal := lifted[b].Sub(lifted[a]).Cross(lifted[c].Sub(lifted[a]))
		// Orient the normal outwards whatever winding the hull uses.
		if normal.Dot(lifted[a].Sub(centroid)) < 0 {
			normal = normal.Mul(-1)
		}
		if normal.Z >= -hullEps*normal.Norm() {
			continue
		}
		t, ok := ReorderCCW(m.Points, Triangle{ids[a], ids[b], ids[c]})
		if !ok || m.Degenerate(t) {
			continue
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// Verification compares a mesh with the reference Delaunay triangulation.
type Verification struct {
	Triangles int
	Reference int
	// Matching is the number of mesh triangles present in the reference.
	Matching int
}

// Agreement returns the share of mesh triangles found in the reference.
func (v Verification) Agreement() float64 {
	if v.Triangles == 0 {
		return 0
	}
	return float64(v.Matching) / float64(v.Triangles)
}

// Verify checks m against its reference Delaunay triangulation.
func Verify(m *Mesh) (Verification, error) {
	ref, err := ReferenceDelaunay(m)
	if err != nil {
		return Verification{}, err
	}
	sigs := make(map[Signature]struct{}, len(ref))
	for _, t := range ref {
		sigs[t.Signature()] = struct{}{}
	}

	v := Verification{Triangles: m.Len(), Reference: len(ref)}
	for _, t := range m.Triangles() {
		if _, ok := sigs[t.Signature()]; ok {
			v.Matching++
		}
	}
	return v, nil
}
