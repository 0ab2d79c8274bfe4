package mesh

import (
	"errors"
	"fmt"

	"github.com/achilleasa/lbvh/types"
)

var (
	ErrEmptyMesh = errors.New("mesh: mesh contains no triangles")
)

// IndexOutOfRangeError is returned when a triangle references a vertex index
// that is not smaller than the vertex count.
type IndexOutOfRangeError struct {
	Triangle    int
	Corner      int
	Index       uint32
	VertexCount int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("mesh: triangle %d corner %d references vertex %d; mesh has %d vertices", e.Triangle, e.Corner, e.Index, e.VertexCount)
}

// NonFiniteVertexError is returned when a vertex coordinate is NaN or infinite.
type NonFiniteVertexError struct {
	Vertex int
	Value  types.Vec3
}

func (e *NonFiniteVertexError) Error() string {
	return fmt.Sprintf("mesh: vertex %d has non-finite coordinates %v", e.Vertex, e.Value)
}
