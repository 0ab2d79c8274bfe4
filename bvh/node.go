package bvh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/achilleasa/lbvh/asset/mesh"
)

// The node variant.
type Kind uint8

const (
	InternalNode Kind = iota
	LeafNode
)

func (k Kind) String() string {
	if k == LeafNode {
		return "leaf"
	}
	return "internal"
}

const (
	// The parent index of the root node.
	NoParent uint32 = math.MaxUint32

	// Size of a packed node in bytes: a 32 byte payload followed by the
	// parent index and the leaf flag.
	NodeSize = 40

	payloadSize = 32
)

// A flattened BVH node. Leaf nodes carry the index triple of one mesh triangle;
// internal nodes carry the union of their children's bounding boxes and the
// node list indices of both children. The payload accessors report ok=false
// when called on the wrong variant.
type Node struct {
	// Index of the parent node or NoParent for the root.
	Parent uint32

	kind Kind

	// Leaf payload.
	triangle mesh.Triangle

	// Internal node payload.
	bbox        AABB
	left, right uint32
}

// Create a leaf node for a mesh triangle.
func NewLeaf(tri mesh.Triangle) Node {
	return Node{
		Parent:   NoParent,
		kind:     LeafNode,
		triangle: tri,
	}
}

// Create an internal node.
func NewInternal(bbox AABB, left, right uint32) Node {
	return Node{
		Parent: NoParent,
		kind:   InternalNode,
		bbox:   bbox,
		left:   left,
		right:  right,
	}
}

// Get the node variant.
func (n Node) Kind() Kind {
	return n.kind
}

// Returns true if this is a leaf node.
func (n Node) IsLeaf() bool {
	return n.kind == LeafNode
}

// Get the triangle of a leaf node.
func (n Node) Triangle() (mesh.Triangle, bool) {
	if n.kind != LeafNode {
		return mesh.Triangle{}, false
	}
	return n.triangle, true
}

// Get the child indices of an internal node.
func (n Node) Children() (left, right uint32, ok bool) {
	if n.kind != InternalNode {
		return 0, 0, false
	}
	return n.left, n.right, true
}

// Get the bounding box of an internal node.
func (n Node) BBox() (AABB, bool) {
	if n.kind != InternalNode {
		return AABB{}, false
	}
	return n.bbox, true
}

// Encode the node using its packed little-endian layout.
func (n Node) MarshalBinary() ([]byte, error) {
	return n.AppendBinary(make([]byte, 0, NodeSize))
}

// Append the packed node layout to buf.
//
// Internal nodes: 6 x f32 bbox, left u32, right u32.
// Leaf nodes: 3 x u32 vertex indices, u32 padding, 16 bytes of zero padding.
// Both variants are followed by the parent u32 and a u32 leaf flag.
func (n Node) AppendBinary(buf []byte) ([]byte, error) {
	var payload [payloadSize]byte
	var leafFlag uint32

	switch n.kind {
	case LeafNode:
		for i, vIndex := range n.triangle {
			binary.LittleEndian.PutUint32(payload[i*4:], vIndex)
		}
		leafFlag = 1
	case InternalNode:
		for i, v := range n.bbox {
			binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(v))
		}
		binary.LittleEndian.PutUint32(payload[24:], n.left)
		binary.LittleEndian.PutUint32(payload[28:], n.right)
	default:
		return nil, fmt.Errorf("bvh: unknown node kind %d", n.kind)
	}

	buf = append(buf, payload[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, n.Parent)
	buf = binary.LittleEndian.AppendUint32(buf, leafFlag)
	return buf, nil
}

// Decode a node from its packed little-endian layout.
func (n *Node) UnmarshalBinary(data []byte) error {
	if len(data) != NodeSize {
		return fmt.Errorf("bvh: packed node must be %d bytes; got %d", NodeSize, len(data))
	}

	n.Parent = binary.LittleEndian.Uint32(data[payloadSize:])
	switch leafFlag := binary.LittleEndian.Uint32(data[payloadSize+4:]); leafFlag {
	case 1:
		*n = Node{Parent: n.Parent, kind: LeafNode}
		for i := range n.triangle {
			n.triangle[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	case 0:
		*n = Node{Parent: n.Parent, kind: InternalNode}
		for i := range n.bbox {
			n.bbox[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		n.left = binary.LittleEndian.Uint32(data[24:])
		n.right = binary.LittleEndian.Uint32(data[28:])
	default:
		return fmt.Errorf("bvh: invalid leaf flag %d", leafFlag)
	}

	return nil
}

// Encode a node list using the packed layout.
func PackNodes(nodes []Node) ([]byte, error) {
	var err error
	buf := make([]byte, 0, len(nodes)*NodeSize)
	for _, n := range nodes {
		if buf, err = n.AppendBinary(buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Decode a node list from its packed layout.
func UnpackNodes(data []byte) ([]Node, error) {
	if len(data)%NodeSize != 0 {
		return nil, fmt.Errorf("bvh: packed node data length %d is not a multiple of %d", len(data), NodeSize)
	}

	nodes := make([]Node, len(data)/NodeSize)
	for i := range nodes {
		if err := nodes[i].UnmarshalBinary(data[i*NodeSize : (i+1)*NodeSize]); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	return nodes, nil
}
