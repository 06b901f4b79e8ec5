package lowpoly

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Triangle is an ordered triple of point indices, stored counterclockwise.
type Triangle [3]int

// Signature is the sorted index set of a triangle. Two triangles with the
// same signature cover the same points regardless of their winding.
type Signature [3]int

// Has reports whether i is one of the triangle's vertices.
func (t Triangle) Has(i int) bool {
	return t[0] == i || t[1] == i || t[2] == i
}

// Signature returns the sorted vertex indices of t.
func (t Triangle) Signature() Signature {
	a, b, c := t[0], t[1], t[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return Signature{a, b, c}
}

// Edges returns the three directed edges of t.
func (t Triangle) Edges() [3][2]int {
	return [3][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
}

// Handle refers to a triangle slot of a Mesh. Overwriting a slot bumps its
// generation, after which older handles to the same slot are stale.
type Handle struct {
	slot int
	gen  uint32
}

// Slot returns the position of the referenced triangle in the mesh.
func (h Handle) Slot() int { return h.slot }

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.slot, h.gen)
}

type slot struct {
	tri Triangle
	gen uint32
}

// Mesh holds the point sequence and the triangle slots of a single
// triangulation run. It is not safe for concurrent use.
type Mesh struct {
	Points []Point

	slots []slot
	index map[Signature]int
}

// NewMesh returns an empty mesh over points. The mesh takes ownership of the slice.
func NewMesh(points []Point) *Mesh {
	return &Mesh{
		Points: points,
		index:  make(map[Signature]int),
	}
}

// Len returns the number of triangles.
func (m *Mesh) Len() int { return len(m.slots) }

// At returns the current handle of the triangle at position i.
func (m *Mesh) At(i int) Handle {
	return Handle{slot: i, gen: m.slots[i].gen}
}

// Handles returns the current handles of all triangles in position order.
func (m *Mesh) Handles() []Handle {
	handles := make([]Handle, len(m.slots))
	for i := range m.slots {
		handles[i] = m.At(i)
	}
	return handles
}

// Valid reports whether h still refers to the triangle it was issued for.
func (m *Mesh) Valid(h Handle) bool {
	return h.slot >= 0 && h.slot < len(m.slots) && m.slots[h.slot].gen == h.gen
}

// Triangle returns the triangle referenced by h.
func (m *Mesh) Triangle(h Handle) (Triangle, error) {
	if !m.Valid(h) {
		return Triangle{}, errors.Wrapf(ErrStaleHandle, "handle %v", h)
	}
	return m.slots[h.slot].tri, nil
}

// Triangles returns a copy of the triangle sequence in position order.
func (m *Mesh) Triangles() []Triangle {
	tris := make([]Triangle, len(m.slots))
	for i, s := range m.slots {
		tris[i] = s.tri
	}
	return tris
}

// Lookup returns the triangle whose vertex set equals sig.
func (m *Mesh) Lookup(sig Signature) (Handle, bool) {
	i, ok := m.index[sig]
	if !ok {
		return Handle{}, false
	}
	return m.At(i), true
}

// Vertices returns the coordinates of the points referenced by t.
func (m *Mesh) Vertices(t Triangle) (a, b, c r2.Point) {
	return m.Points[t[0]].Point, m.Points[t[1]].Point, m.Points[t[2]].Point
}

// Contains reports whether p lies inside t or on its boundary.
func (m *Mesh) Contains(t Triangle, p r2.Point) bool {
	a, b, c := m.Vertices(t)
	return InTriangle(p, a, b, c)
}

// InCircumcircle reports whether point i lies strictly inside the circumcircle of t.
func (m *Mesh) InCircumcircle(i int, t Triangle) bool {
	a, b, c := m.Vertices(t)
	return InCircumcircle(m.Points[i].Point, a, b, c)
}

// Degenerate reports whether t has zero area.
func (m *Mesh) Degenerate(t Triangle) bool {
	a, b, c := m.Vertices(t)
	return HasZeroArea(a, b, c)
}

// Duplicates returns the number of triangles sharing their signature with an
// earlier triangle.
func (m *Mesh) Duplicates() int {
	seen := make(map[Signature]struct{}, len(m.slots))
	var n int
	for _, s := range m.slots {
		sig := s.tri.Signature()
		if _, ok := seen[sig]; ok {
			n++
			continue
		}
		seen[sig] = struct{}{}
	}
	return n
}

// push appends t and returns its handle.
func (m *Mesh) push(t Triangle) Handle {
	m.slots = append(m.slots, slot{tri: t})
	i := len(m.slots) - 1
	m.index[t.Signature()] = i
	return Handle{slot: i}
}

// overwrite replaces the triangle referenced by h, invalidating h.
func (m *Mesh) overwrite(h Handle, t Triangle) (Handle, error) {
	if !m.Valid(h) {
		return Handle{}, errors.Wrapf(ErrStaleHandle, "overwrite %v", h)
	}
	s := &m.slots[h.slot]
	if old := s.tri.Signature(); m.index[old] == h.slot {
		delete(m.index, old)
	}
	s.tri = t
	s.gen++
	m.index[t.Signature()] = h.slot

	return Handle{slot: h.slot, gen: s.gen}, nil
}
