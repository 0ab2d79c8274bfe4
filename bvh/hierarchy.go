package bvh

import "math/bits"

// A node of the intermediate binary radix tree. Leaves reference a position in
// the sorted primitive list; internal nodes reference two other hierarchy
// nodes.
type hierarchyNode struct {
	leaf bool

	// Leaf payload: index into the sorted primitive list.
	primitive int

	// Internal payload: indices into hierarchy.nodes.
	left, right int
}

// An arena-backed binary tree. The root is always stored at index 0.
type hierarchy struct {
	nodes    []hierarchyNode
	maxDepth int
}

// A pending [first, last] range whose node will be stored at slot.
type hierarchyTask struct {
	first, last int
	slot        int
	depth       int
}

// Partition the sorted primitive list into a binary radix tree by repeatedly
// splitting each range where the Morton codes of its members diverge.
func buildHierarchy(prims []Primitive) *hierarchy {
	codes := make([]MortonCode, len(prims))
	for i, prim := range prims {
		codes[i] = prim.Code
	}

	h := &hierarchy{
		nodes: make([]hierarchyNode, 1, max(2*len(prims)-1, 1)),
	}

	stack := []hierarchyTask{{first: 0, last: len(prims) - 1, slot: 0}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if task.depth > h.maxDepth {
			h.maxDepth = task.depth
		}

		if task.first == task.last {
			h.nodes[task.slot] = hierarchyNode{leaf: true, primitive: task.first}
			continue
		}

		split := findSplit(codes, task.first, task.last)

		left := len(h.nodes)
		right := left + 1
		h.nodes = append(h.nodes, hierarchyNode{}, hierarchyNode{})
		h.nodes[task.slot] = hierarchyNode{left: left, right: right}

		stack = append(stack,
			hierarchyTask{first: split + 1, last: task.last, slot: right, depth: task.depth + 1},
			hierarchyTask{first: task.first, last: split, slot: left, depth: task.depth + 1},
		)
	}

	return h
}

// Find the index s in [first, last-1] so that [first, s] and [s+1, last]
// are separated at the highest bit where codes[first] and codes[last] differ.
// Ranges whose boundary codes are equal are split at their midpoint.
func findSplit(codes []MortonCode, first, last int) int {
	firstCode := codes[first]
	lastCode := codes[last]

	if firstCode == lastCode {
		return (first + last) / 2
	}

	commonPrefix := bits.LeadingZeros32(uint32(firstCode ^ lastCode))

	// Binary search for the highest index that shares more than commonPrefix
	// bits with firstCode.
	split := first
	step := last - first
	for {
		step = (step + 1) / 2
		candidate := split + step

		if candidate < last {
			splitPrefix := bits.LeadingZeros32(uint32(firstCode ^ codes[candidate]))
			if splitPrefix > commonPrefix {
				split = candidate
			}
		}

		if step <= 1 {
			break
		}
	}

	return split
}
