// Package bvh builds linear bounding volume hierarchies (LBVH) over triangle
// meshes.
//
// Triangles are ordered along a Z-order curve using 30-bit Morton codes and
// the sorted sequence is partitioned into a binary radix tree by splitting
// each range at the highest bit where the codes of its members diverge. The
// tree is then flattened into a node list where every internal node stores
// the union of its children's bounding boxes and every node stores the index
// of its parent.
package bvh

import (
	"fmt"
	"time"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/log"
)

// Builder options.
type Options struct {
	// Number of goroutines used for Morton encoding. Values <= 1 select
	// the sequential path. The generated tree does not depend on this value.
	Workers int
}

// Get the default builder options.
func DefaultOptions() Options {
	return Options{Workers: 1}
}

// A built hierarchy. The root is the last node in the list.
type Tree struct {
	Nodes []Node
	Stats Stats
}

// Get the index of the root node.
func (t *Tree) Root() uint32 {
	return uint32(len(t.Nodes) - 1)
}

// Construct a BVH for the given mesh. The mesh must contain at least one
// triangle and all triangles must reference existing vertices. For a mesh
// with L triangles the returned tree contains exactly 2L-1 nodes.
func Build(m *mesh.Mesh, opts Options) (*Tree, error) {
	logger := log.New("bvh builder")
	start := time.Now()

	codes, err := NormalizeAndEncodeParallel(m, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("bvh: %w", err)
	}

	prims := SortPrimitives(codes)
	h := buildHierarchy(prims)
	nodes := flatten(h, prims, m)

	root := uint32(len(nodes) - 1)
	linkParents(nodes, root)

	tree := &Tree{
		Nodes: nodes,
		Stats: Stats{
			Vertices:       len(m.Vertices),
			Triangles:      len(m.Triangles),
			Nodes:          len(nodes),
			Leaves:         len(prims),
			MaxDepth:       h.maxDepth,
			DuplicateCodes: countDuplicateCodes(prims),
			BuildTime:      time.Since(start),
		},
	}

	logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, duplicate codes: %d",
		tree.Stats.BuildTime.Milliseconds(),
		tree.Stats.MaxDepth, tree.Stats.Nodes, tree.Stats.Leaves, tree.Stats.DuplicateCodes,
	)
	return tree, nil
}
