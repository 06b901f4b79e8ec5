package lowpoly

import (
	"math"

	"github.com/golang/geo/r2"
)

// Epsilon is the relative tolerance shared by every geometric predicate.
// Determinants are compared against Epsilon times the magnitude of the terms
// they are built from, so the tolerance scales with the size of the triangle.
const Epsilon = 1e-10

// Orientation is the winding of an ordered point triple.
type Orientation int

const (
	Collinear Orientation = iota
	CCW
	CW
)

func (o Orientation) String() string {
	switch o {
	case CCW:
		return "ccw"
	case CW:
		return "cw"
	}
	return "collinear"
}

// Point is a normalized mesh vertex. Used reports whether the point
// has already been inserted into the mesh.
type Point struct {
	r2.Point
	Used bool
}

// NewPoint returns an unused point at (x, y).
func NewPoint(x, y float64) Point {
	return Point{Point: r2.Point{X: x, Y: y}}
}

// Orient returns the sign of the determinant
//
//	| p1.X p1.Y 1 |
//	| p2.X p2.Y 1 |
//	| p3.X p3.Y 1 |
//
// A positive determinant is CCW.
func Orient(p1, p2, p3 r2.Point) Orientation {
	u, v := p2.Sub(p1), p3.Sub(p1)
	det := u.Cross(v)
	bound := Epsilon * (math.Abs(u.X*v.Y) + math.Abs(u.Y*v.X))
	switch {
	case det > bound:
		return CCW
	case det < -bound:
		return CW
	}
	return Collinear
}

// InTriangle reports whether pt lies inside the triangle (a, b, c) or on its
// boundary. The winding of the triangle does not matter.
func InTriangle(pt, a, b, c r2.Point) bool {
	var neg, pos bool
	for _, o := range [3]Orientation{Orient(a, b, pt), Orient(b, c, pt), Orient(c, a, pt)} {
		switch o {
		case CCW:
			pos = true
		case CW:
			neg = true
		}
	}
	return !(neg && pos)
}

// InCircumcircle reports whether pt lies strictly inside the circumcircle of
// the CCW triangle (a, b, c). Cocircular points are reported outside.
// The result is inverted for CW triangles.
func InCircumcircle(pt, a, b, c r2.Point) bool {
	ad, bd, cd := a.Sub(pt), b.Sub(pt), c.Sub(pt)

	alift := ad.Dot(ad)
	blift := bd.Dot(bd)
	clift := cd.Dot(cd)

	bc := bd.Cross(cd)
	ca := cd.Cross(ad)
	ab := ad.Cross(bd)

	det := alift*bc + blift*ca + clift*ab
	permanent := (math.Abs(bd.X*cd.Y)+math.Abs(cd.X*bd.Y))*alift +
		(math.Abs(cd.X*ad.Y)+math.Abs(ad.X*cd.Y))*blift +
		(math.Abs(ad.X*bd.Y)+math.Abs(bd.X*ad.Y))*clift

	return det > Epsilon*permanent
}

// HasZeroArea reports whether (a, b, c) is degenerate: the longest side is,
// within the relative tolerance, as long as the other two combined.
func HasZeroArea(a, b, c r2.Point) bool {
	la := b.Sub(c).Norm()
	lb := c.Sub(a).Norm()
	lc := a.Sub(b).Norm()

	longest := Max(la, lb, lc)
	rest := la + lb + lc - longest

	return rest-longest <= Epsilon*longest
}

// ReorderCCW returns t with its indices permuted so that the referenced points
// wind counterclockwise. The second value is false if the points are collinear.
func ReorderCCW(points []Point, t Triangle) (Triangle, bool) {
	switch Orient(points[t[0]].Point, points[t[1]].Point, points[t[2]].Point) {
	case CCW:
		return t, true
	case CW:
		return Triangle{t[0], t[2], t[1]}, true
	}
	return t, false
}
