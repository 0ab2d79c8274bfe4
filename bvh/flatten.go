package bvh

import "github.com/achilleasa/lbvh/asset/mesh"

// A post-order traversal step. Internal hierarchy nodes are visited twice:
// once to schedule their children and once, after both children have been
// emitted, to emit the node itself.
type flattenTask struct {
	node     int
	expanded bool
}

// Convert the hierarchy into a flat node list using a post-order traversal
// (left subtree, right subtree, node). The bounding box of each internal node
// is the union of its children's boxes; leaf boxes are calculated from the
// triangle vertices. The root is the last node in the returned list.
func flatten(h *hierarchy, prims []Primitive, m *mesh.Mesh) []Node {
	nodes := make([]Node, 0, len(h.nodes))

	// The flat list index of each emitted hierarchy node.
	position := make([]uint32, len(h.nodes))

	// Boxes of emitted nodes, indexed by flat list position. Leaf boxes are
	// cached here so they are only calculated once.
	boxes := make([]AABB, 0, len(h.nodes))

	stack := []flattenTask{{node: 0}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		hn := h.nodes[task.node]

		switch {
		case hn.leaf:
			tri := m.Triangles[prims[hn.primitive].Triangle]
			position[task.node] = uint32(len(nodes))
			nodes = append(nodes, NewLeaf(tri))
			boxes = append(boxes, TriangleBBox(m, tri))
		case !task.expanded:
			stack = append(stack,
				flattenTask{node: task.node, expanded: true},
				flattenTask{node: hn.right},
				flattenTask{node: hn.left},
			)
		default:
			left, right := position[hn.left], position[hn.right]
			bbox := boxes[left].Union(boxes[right])
			position[task.node] = uint32(len(nodes))
			nodes = append(nodes, NewInternal(bbox, left, right))
			boxes = append(boxes, bbox)
		}
	}

	return nodes
}
