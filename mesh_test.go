package lowpoly

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleSignature(t *testing.T) {
	want := Signature{1, 4, 7}
	for _, tri := range []Triangle{{1, 4, 7}, {4, 7, 1}, {7, 1, 4}, {7, 4, 1}, {4, 1, 7}, {1, 7, 4}} {
		assert.Equal(t, want, tri.Signature(), "%v", tri)
	}
}

func TestTriangleEdges(t *testing.T) {
	tri := Triangle{3, 5, 9}
	assert.Equal(t, [3][2]int{{3, 5}, {5, 9}, {9, 3}}, tri.Edges())
	assert.True(t, tri.Has(9))
	assert.False(t, tri.Has(4))
}

func TestMeshHandles(t *testing.T) {
	m := NewMesh([]Point{NewPoint(0, 0), NewPoint(1, 0), NewPoint(1, 1), NewPoint(0, 1)})
	h0 := m.push(Triangle{0, 1, 2})
	h1 := m.push(Triangle{0, 2, 3})

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []Handle{h0, h1}, m.Handles())
	assert.Equal(t, 1, h1.Slot())
	assert.Equal(t, "#1.0", h1.String())

	got, ok := m.Lookup(Signature{0, 2, 3})
	require.True(t, ok)
	assert.Equal(t, h1, got)

	nh, err := m.overwrite(h0, Triangle{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "#0.1", nh.String())

	assert.False(t, m.Valid(h0))
	assert.True(t, m.Valid(nh))
	_, err = m.Triangle(h0)
	assert.Equal(t, ErrStaleHandle, errors.Cause(err))
	_, err = m.overwrite(h0, Triangle{0, 1, 2})
	assert.Equal(t, ErrStaleHandle, errors.Cause(err))

	tri, err := m.Triangle(nh)
	require.NoError(t, err)
	assert.Equal(t, Triangle{1, 2, 3}, tri)

	_, ok = m.Lookup(Signature{0, 1, 2})
	assert.False(t, ok, "overwritten signature must leave the index")
	got, ok = m.Lookup(Signature{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, nh, got)

	assert.False(t, m.Valid(Handle{slot: 5}))
	assert.False(t, m.Valid(Handle{slot: -1}))
}

func TestMeshPredicates(t *testing.T) {
	m := NewMesh([]Point{NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1), NewPoint(0.9, 0.9), NewPoint(2, 0)})
	tri := Triangle{0, 1, 2}

	assert.True(t, m.Contains(tri, m.Points[0].Point))
	assert.False(t, m.Contains(tri, m.Points[3].Point))
	assert.True(t, m.InCircumcircle(3, tri))
	assert.False(t, m.InCircumcircle(4, tri))
	assert.False(t, m.Degenerate(tri))
	assert.True(t, m.Degenerate(Triangle{0, 1, 4}))
}

func TestMeshDuplicates(t *testing.T) {
	m := NewMesh([]Point{NewPoint(0, 0), NewPoint(1, 0), NewPoint(1, 1), NewPoint(0, 1)})
	m.push(Triangle{0, 1, 2})
	m.push(Triangle{0, 2, 3})
	assert.Zero(t, m.Duplicates())

	m.push(Triangle{2, 0, 1})
	assert.Equal(t, 1, m.Duplicates())
}
