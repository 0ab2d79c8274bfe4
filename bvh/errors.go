package bvh

import (
	"fmt"

	"github.com/achilleasa/lbvh/asset/mesh"
)

var (
	// Returned when the mesh contains no triangles.
	ErrEmptyMesh = mesh.ErrEmptyMesh
)

// A triangle references a vertex index that is not smaller than the vertex count.
type IndexOutOfRangeError = mesh.IndexOutOfRangeError

// A vertex has NaN or infinite coordinates.
type NonFiniteVertexError = mesh.NonFiniteVertexError

// ValidationError describes a structural defect in a node list.
type ValidationError struct {
	Node   int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Node < 0 {
		return "bvh: invalid tree: " + e.Reason
	}
	return fmt.Sprintf("bvh: invalid tree: node %d: %s", e.Node, e.Reason)
}
