package lowpoly

import "github.com/pkg/errors"

var (
	// ErrInvalidParameter is returned when a grid or processor option is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrStaleHandle is returned when a triangle handle refers to a slot that has been overwritten.
	ErrStaleHandle = errors.New("stale triangle handle")
	// ErrNotAdjacent is returned by Flip when the two triangles do not share an edge.
	ErrNotAdjacent = errors.New("triangles are not edge adjacent")
	// ErrDegenerateFlip is returned by Flip when a resulting triangle would have zero area.
	ErrDegenerateFlip = errors.New("flip would create a degenerate triangle")
	// ErrEmptyImage is returned when the source image has no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrUnsupportedFormat is returned when the requested output format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
