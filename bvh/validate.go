package bvh

import (
	"fmt"

	"github.com/achilleasa/lbvh/asset/mesh"
)

// Validate checks the structural invariants of a node list built for mesh m
// without relying on any builder state:
//
//   - the list holds 2L-1 nodes for L mesh triangles and the root is last
//   - every internal node box equals the union of its children's boxes, with
//     leaf boxes recalculated from the mesh vertices
//   - every node except the root is referenced by exactly one parent whose
//     index is stored in the node's Parent field
//   - the leaf triangles are a permutation of the mesh triangles
func Validate(m *mesh.Mesh, nodes []Node) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("bvh: %w", err)
	}

	expCount := 2*len(m.Triangles) - 1
	if len(nodes) != expCount {
		return &ValidationError{Node: -1, Reason: fmt.Sprintf("expected %d nodes for %d triangles; got %d", expCount, len(m.Triangles), len(nodes))}
	}

	root := len(nodes) - 1
	if nodes[root].Parent != NoParent {
		return &ValidationError{Node: root, Reason: fmt.Sprintf("expected root parent to be unset; got %d", nodes[root].Parent)}
	}

	// Children always precede their parent so boxes can be recalculated in
	// a single forward pass.
	boxes := make([]AABB, len(nodes))
	referencedBy := make([]int, len(nodes))
	for i := range referencedBy {
		referencedBy[i] = -1
	}
	leafTriangles := make(map[mesh.Triangle]int, len(m.Triangles))

	for index, node := range nodes {
		if tri, ok := node.Triangle(); ok {
			for _, vIndex := range tri {
				if int(vIndex) >= len(m.Vertices) {
					return &ValidationError{Node: index, Reason: fmt.Sprintf("leaf references vertex %d; mesh has %d vertices", vIndex, len(m.Vertices))}
				}
			}
			boxes[index] = TriangleBBox(m, tri)
			leafTriangles[tri]++
			continue
		}

		left, right, _ := node.Children()
		for _, child := range []uint32{left, right} {
			if int(child) >= index {
				return &ValidationError{Node: index, Reason: fmt.Sprintf("child %d does not precede its parent", child)}
			}
			if referencedBy[child] != -1 {
				return &ValidationError{Node: int(child), Reason: fmt.Sprintf("referenced by both node %d and node %d", referencedBy[child], index)}
			}
			referencedBy[child] = index
			if nodes[child].Parent != uint32(index) {
				return &ValidationError{Node: int(child), Reason: fmt.Sprintf("expected parent %d; got %d", index, nodes[child].Parent)}
			}
		}
		if left == right {
			return &ValidationError{Node: index, Reason: "both children reference the same node"}
		}

		expBBox := boxes[left].Union(boxes[right])
		bbox, _ := node.BBox()
		if bbox != expBBox {
			return &ValidationError{Node: index, Reason: fmt.Sprintf("expected bbox %v; got %v", expBBox, bbox)}
		}
		boxes[index] = bbox
	}

	for index := 0; index < root; index++ {
		if referencedBy[index] == -1 {
			return &ValidationError{Node: index, Reason: "not referenced by any internal node"}
		}
	}

	for _, tri := range m.Triangles {
		leafTriangles[tri]--
	}
	for tri, count := range leafTriangles {
		if count != 0 {
			return &ValidationError{Node: -1, Reason: fmt.Sprintf("leaf triangles are not a permutation of the mesh triangles; triangle %v count differs by %d", tri, count)}
		}
	}

	return nil
}
